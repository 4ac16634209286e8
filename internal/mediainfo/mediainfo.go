// Package mediainfo parses the plain-text report printed by the mediainfo
// tool into ordered sections of key/value fields.
package mediainfo

import (
	"bufio"
	"strings"

	"golang.org/x/text/width"
)

type Field struct {
	Key   string
	Value string
}

type Section struct {
	Name   string
	Fields []Field
}

type Report struct {
	Sections []Section
}

// Parse never fails: anything that is not a header or a key/value line is
// ignored.
func Parse(text string) Report {
	var rep Report
	cur := -1

	sc := bufio.NewScanner(strings.NewReader(Normalize(text)))
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			rep.Sections = append(rep.Sections, Section{Name: line})
			cur = len(rep.Sections) - 1
			continue
		}
		key := canonicalKey(line[:idx])
		if key == "" {
			continue
		}
		if cur < 0 {
			rep.Sections = append(rep.Sections, Section{})
			cur = 0
		}
		rep.Sections[cur].Fields = append(rep.Sections[cur].Fields, Field{
			Key:   key,
			Value: strings.TrimSpace(line[idx+1:]),
		})
	}
	return rep
}

// Normalize folds fullwidth forms (colon, digits, ideographic space) to their
// ASCII equivalents and unifies line endings.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return width.Fold.String(text)
}

// First returns the first value stored under key in document order.
func (r Report) First(key string) (string, bool) {
	key = canonicalKey(key)
	for _, s := range r.Sections {
		for _, f := range s.Fields {
			if strings.EqualFold(f.Key, key) {
				return f.Value, true
			}
		}
	}
	return "", false
}

func (r Report) Values(key string) []string {
	key = canonicalKey(key)
	var out []string
	for _, s := range r.Sections {
		for _, f := range s.Fields {
			if strings.EqualFold(f.Key, key) {
				out = append(out, f.Value)
			}
		}
	}
	return out
}

// canonicalKey collapses runs of whitespace so "Scan   type" and "Scan type"
// compare equal.
func canonicalKey(k string) string {
	return strings.Join(strings.Fields(k), " ")
}
