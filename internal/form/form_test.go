package form

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"pt-autofill/internal/classifier"
	"pt-autofill/internal/models"
)

const uploadHTML = `<html><head><title>Upload</title></head><body>
<form action="takeupload.php" enctype="multipart/form-data">
<input type="text" name="name" value="Show.S01E01.1080i.HDTV">
<input type="text" name="small_descr">
<input type="text" name="url">
<textarea name="technical_info"></textarea>
<textarea id="descr" name="descr"></textarea>
<select id="browsecat" name="type"><option value="0">-</option><option value="407">TV</option></select>
<select name="standard_sel[4]"><option value="0" selected>-</option><option value="1">1080p</option><option value="2">1080i</option><option value="3">720p</option><option value="5">2160p</option></select>
<select name="codec_sel[4]"><option value="1">H.264</option><option value="7">H.265</option></select>
<select name="audiocodec_sel[4]"><option value="6">AAC</option><option value="14">AC3</option></select>
<select name="medium_sel[4]"><option value="4">WEB-DL</option></select>
<select name="source_sel[4]"><option value="4">CN</option></select>
<input type="checkbox" name="uplver" value="yes">
</form></body></html>`

const payloadInfo = `Video
Format                                   : HEVC
Height                                   : 2 160 pixels
Audio
Format                                   : AC-3
`

func newForm(t *testing.T) *HTMLForm {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(uploadHTML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return NewHTMLForm(doc)
}

func applied(res models.FillResult, field string) (models.Assignment, bool) {
	for _, a := range res.Assignments {
		if a.Field == field {
			return a, a.Applied
		}
	}
	return models.Assignment{}, false
}

func TestFillJSON(t *testing.T) {
	f := newForm(t)
	fl := NewFiller(classifier.New(), DefaultProfile(), nil)
	res, err := fl.FillJSON(f, models.Payload{
		Title:       "Show.S01E01.2160p.WEB-DL",
		Subtitle:    "第一集",
		MediaInfo:   payloadInfo,
		Description: "[img]poster.jpg[/img]",
		IMDb:        "https://www.imdb.com/title/tt0000001/",
	})
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if res.Class.Resolution != models.Res2160p || res.Class.VideoCodec != models.VideoHEVC || res.Class.AudioCodec != models.AudioAC3 {
		t.Fatalf("unexpected class: %#v", res.Class)
	}
	if got := f.FieldText(`select[name="standard_sel[4]"]`); got != "5" {
		t.Fatalf("resolution select: want 5, got %q", got)
	}
	if got := f.FieldText(`select[name="codec_sel[4]"]`); got != "7" {
		t.Fatalf("codec select: want 7, got %q", got)
	}
	if got := f.FieldText(`#browsecat`); got != "407" {
		t.Fatalf("category: want 407, got %q", got)
	}
	if got := f.FieldText(`input[name="small_descr"]`); got != "第一集" {
		t.Fatalf("subtitle not written: %q", got)
	}
	if got := f.FieldText(`#descr`); got != "[img]poster.jpg[/img]" {
		t.Fatalf("description not written: %q", got)
	}
	if _, ok := applied(res, "uplver"); !ok {
		t.Fatal("uplver should be checked")
	}
	// no team select and no asoffer checkbox on this page
	want := []string{"team", "asoffer"}
	if strings.Join(res.Missing, ",") != strings.Join(want, ",") {
		t.Fatalf("want missing %v, got %v", want, res.Missing)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), `checked="checked"`) {
		t.Fatal("rendered page lost checkbox state")
	}
}

func TestFillJSONRejectsIncompletePayload(t *testing.T) {
	fl := NewFiller(classifier.New(), DefaultProfile(), nil)
	_, err := fl.FillJSON(newForm(t), models.Payload{Title: "x"})
	if !errors.Is(err, models.ErrInvalidPayload) {
		t.Fatalf("want ErrInvalidPayload, got %v", err)
	}
}

func TestFillJSONUnknownCodes(t *testing.T) {
	f := newForm(t)
	fl := NewFiller(classifier.New(), DefaultProfile(), nil)
	res, err := fl.FillJSON(f, models.Payload{Title: "x", MediaInfo: "Format : AV1\nFormat : Opus"})
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if a, ok := applied(res, "resolution"); ok || a.Value != "" {
		t.Fatalf("resolution must stay unset: %#v", a)
	}
	if got := f.FieldText(`select[name="standard_sel[4]"]`); got != "0" {
		t.Fatalf("select should keep its default, got %q", got)
	}
}

func TestFillTitle(t *testing.T) {
	f := newForm(t)
	fl := NewFiller(classifier.New(), DefaultProfile(), nil)
	res := fl.FillTitle(f)
	if res.Class.TitleResolution != models.Res1080i {
		t.Fatalf("want 1080i, got %v", res.Class.TitleResolution)
	}
	if got := f.FieldText(`select[name="standard_sel[4]"]`); got != "2" {
		t.Fatalf("resolution select: want 2, got %q", got)
	}
	if _, ok := applied(res, "video_codec"); ok {
		t.Fatal("title mode does not detect codecs")
	}
}

type mapForm map[string]string

func (m mapForm) FieldText(sel string) string { return m[sel] }
func (m mapForm) SetField(sel, v string) bool {
	if v == "" {
		return false
	}
	m[sel] = v
	return true
}
func (m mapForm) Check(name string) bool { m["checkbox:"+name] = "on"; return true }

func TestFillTitleDefault(t *testing.T) {
	m := mapForm{"title": "Some Show Without Tags"}
	fl := NewFiller(classifier.New(), DefaultProfile(), nil)
	res := fl.FillTitle(m)
	if res.Class.TitleResolution != models.Res720p {
		t.Fatalf("want fallback 720p, got %v", res.Class.TitleResolution)
	}
	if m[`select[name="standard_sel[4]"]`] != "3" || m["checkbox:asoffer"] != "on" {
		t.Fatalf("unexpected form state: %#v", m)
	}
	if len(res.Missing) != 0 {
		t.Fatalf("nothing should be missing: %v", res.Missing)
	}
}
