package parser

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"pt-autofill/internal/models"
)

type Parser struct{}

func New() *Parser { return &Parser{} }

// Load decodes an upload page to UTF-8 and parses it. Scripts and styles are
// dropped so a rendered copy never re-runs page code.
func (p *Parser) Load(r io.Reader, contentType string) (*goquery.Document, error) {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	data := buf.Bytes()

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return nil, err
		}
		utf8data = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return nil, err
	}
	doc.Find("script,noscript,style").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})
	return doc, nil
}

// Extract lists the named controls of the first upload form on the page.
func (p *Parser) Extract(doc *goquery.Document) models.UploadPage {
	page := models.UploadPage{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	form := doc.Find(`form[enctype="multipart/form-data"]`).First()
	if form.Length() == 0 {
		form = doc.Find("form").First()
	}
	page.Action = strings.TrimSpace(form.AttrOr("action", ""))

	scope := form
	if scope.Length() == 0 {
		scope = doc.Selection
	}
	scope.Find("input[name],textarea[name],select[name]").Each(func(i int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		f := models.FormField{Name: name}
		switch goquery.NodeName(s) {
		case "textarea":
			f.Kind = models.KindText
			f.Value = strings.TrimSpace(s.Text())
		case "select":
			f.Kind = models.KindSelect
			s.Find("option").Each(func(i int, o *goquery.Selection) {
				if v, ok := o.Attr("value"); ok && v != "" {
					f.Options = append(f.Options, v)
				}
			})
			f.Value = s.Find("option[selected]").First().AttrOr("value", "")
		default:
			typ := strings.ToLower(s.AttrOr("type", "text"))
			switch typ {
			case "hidden", "submit", "button", "file", "image", "reset":
				return
			case "checkbox", "radio":
				f.Kind = models.KindCheckbox
				if _, ok := s.Attr("checked"); ok {
					f.Value = "checked"
				}
			default:
				f.Kind = models.KindText
				f.Value = s.AttrOr("value", "")
			}
		}
		page.Fields = append(page.Fields, f)
	})
	return page
}
