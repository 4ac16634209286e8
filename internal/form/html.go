package form

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Form is the capability set the fill modes need from an upload page.
type Form interface {
	FieldText(selector string) string
	SetField(selector, value string) bool
	Check(name string) bool
}

// HTMLForm edits a parsed upload page in place.
type HTMLForm struct {
	doc *goquery.Document
}

func NewHTMLForm(doc *goquery.Document) *HTMLForm {
	return &HTMLForm{doc: doc}
}

// FieldText returns the current value of the first element matching selector:
// the value attribute of an input, the text of a textarea, the selected option
// of a select, or the text content of anything else.
func (f *HTMLForm) FieldText(selector string) string {
	s := f.doc.Find(selector).First()
	if s.Length() == 0 {
		return ""
	}
	switch goquery.NodeName(s) {
	case "input":
		return strings.TrimSpace(s.AttrOr("value", ""))
	case "select":
		return s.Find("option[selected]").First().AttrOr("value", "")
	default:
		return strings.TrimSpace(s.Text())
	}
}

// SetField writes value into the first element matching selector. Empty
// values and select values without a matching option are not applied.
func (f *HTMLForm) SetField(selector, value string) bool {
	s := f.doc.Find(selector).First()
	if s.Length() == 0 || value == "" {
		return false
	}
	switch goquery.NodeName(s) {
	case "select":
		opts := s.Find("option")
		var match *goquery.Selection
		opts.EachWithBreak(func(i int, o *goquery.Selection) bool {
			if o.AttrOr("value", "") == value {
				match = o
				return false
			}
			return true
		})
		if match == nil {
			return false
		}
		opts.RemoveAttr("selected")
		match.SetAttr("selected", "selected")
	case "textarea":
		s.SetText(value)
	default:
		s.SetAttr("value", value)
	}
	s.SetAttr("data-autofilled", "true")
	return true
}

func (f *HTMLForm) Check(name string) bool {
	s := f.doc.Find(`input[type="checkbox"][name="` + name + `"]`).First()
	if s.Length() == 0 {
		return false
	}
	s.SetAttr("checked", "checked")
	s.SetAttr("data-autofilled", "true")
	return true
}

// Render writes the page back out as HTML.
func (f *HTMLForm) Render(w io.Writer) error {
	html, err := f.doc.Html()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, html)
	return err
}
