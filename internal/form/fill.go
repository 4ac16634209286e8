package form

import (
	"pt-autofill/internal/classifier"
	"pt-autofill/internal/models"
	"pt-autofill/pkg/logger"
)

const (
	ModeJSON  = "json"
	ModeTitle = "title"
)

// Fixed is a select that always receives the same value on a given site.
type Fixed struct {
	Field    string `toml:"field"`
	Selector string `toml:"selector"`
	Value    string `toml:"value"`
}

// Profile maps upload form controls of one site.
type Profile struct {
	SubtitleSelector    string   `toml:"subtitle_selector"`
	TechInfoSelector    string   `toml:"tech_info_selector"`
	TechInfoFallback    string   `toml:"tech_info_fallback"`
	DescriptionSelector string   `toml:"description_selector"`
	IMDbSelector        string   `toml:"imdb_selector"`
	TitleSelector       string   `toml:"title_selector"`
	ResolutionSelector  string   `toml:"resolution_selector"`
	VideoCodecSelector  string   `toml:"video_codec_selector"`
	AudioCodecSelector  string   `toml:"audio_codec_selector"`
	Fixed               []Fixed  `toml:"fixed"`
	Checkboxes          []string `toml:"checkboxes"`
}

// DefaultProfile matches the stock NexusPHP upload page (category 407).
func DefaultProfile() Profile {
	return Profile{
		SubtitleSelector:    `input[name="small_descr"]`,
		TechInfoSelector:    `textarea[name="technical_info"]`,
		TechInfoFallback:    `#technical_info`,
		DescriptionSelector: `#descr`,
		IMDbSelector:        `input[name="url"]`,
		TitleSelector:       `input[name="name"]`,
		ResolutionSelector:  `select[name="standard_sel[4]"]`,
		VideoCodecSelector:  `select[name="codec_sel[4]"]`,
		AudioCodecSelector:  `select[name="audiocodec_sel[4]"]`,
		Fixed: []Fixed{
			{Field: "category", Selector: `#browsecat`, Value: "407"},
			{Field: "medium", Selector: `select[name="medium_sel[4]"]`, Value: "4"},
			{Field: "source", Selector: `select[name="source_sel[4]"]`, Value: "4"},
			{Field: "team", Selector: `select[name="team_sel[4]"]`, Value: "5"},
		},
		Checkboxes: []string{"asoffer", "uplver"},
	}
}

type Filler struct {
	cl      *classifier.Classifier
	profile Profile
	log     *logger.Logger
}

func NewFiller(cl *classifier.Classifier, profile Profile, log *logger.Logger) *Filler {
	if log == nil {
		log = logger.Discard()
	}
	return &Filler{cl: cl, profile: profile, log: log}
}

// FillJSON applies a publish payload: text fields first, then the codes
// classified from the technical info as it reads back from the form.
func (fl *Filler) FillJSON(f Form, p models.Payload) (models.FillResult, error) {
	if err := p.Validate(); err != nil {
		return models.FillResult{}, err
	}
	res := models.FillResult{Mode: ModeJSON}
	pr := fl.profile

	fl.set(f, &res, "subtitle", pr.SubtitleSelector, p.Subtitle, models.KindText)
	fl.set(f, &res, "technical_info", pr.TechInfoSelector, p.MediaInfo, models.KindText)
	fl.set(f, &res, "description", pr.DescriptionSelector, p.Description, models.KindText)
	fl.set(f, &res, "imdb", pr.IMDbSelector, p.IMDb, models.KindText)

	nfo := f.FieldText(pr.TechInfoSelector)
	if nfo == "" && pr.TechInfoFallback != "" {
		nfo = f.FieldText(pr.TechInfoFallback)
	}
	if nfo == "" {
		nfo = p.MediaInfo
	}
	res.Class = fl.cl.Classify(nfo, "")

	fl.set(f, &res, "resolution", pr.ResolutionSelector, res.Class.Resolution.String(), models.KindSelect)
	fl.set(f, &res, "video_codec", pr.VideoCodecSelector, res.Class.VideoCodec.String(), models.KindSelect)
	fl.set(f, &res, "audio_codec", pr.AudioCodecSelector, res.Class.AudioCodec.String(), models.KindSelect)

	fl.fixed(f, &res)
	return res, nil
}

// FillTitle applies the fixed site values and a resolution taken from the
// torrent title. It never leaves the resolution empty.
func (fl *Filler) FillTitle(f Form) models.FillResult {
	res := models.FillResult{Mode: ModeTitle}
	pr := fl.profile

	title := ""
	if pr.TitleSelector != "" {
		title = f.FieldText(pr.TitleSelector)
	}
	if title == "" {
		title = f.FieldText("title")
	}
	code := fl.cl.ResolutionFromTitle(title)
	res.Class = models.Classification{TitleResolution: code}
	if title != "" {
		res.Class.Evidence = map[string]string{"title": title}
	}

	fl.set(f, &res, "resolution", pr.ResolutionSelector, code.String(), models.KindSelect)
	fl.fixed(f, &res)
	return res
}

func (fl *Filler) fixed(f Form, res *models.FillResult) {
	for _, fx := range fl.profile.Fixed {
		fl.set(f, res, fx.Field, fx.Selector, fx.Value, models.KindSelect)
	}
	for _, name := range fl.profile.Checkboxes {
		ok := f.Check(name)
		res.Assignments = append(res.Assignments, models.Assignment{
			Field:    name,
			Selector: `input[type="checkbox"][name="` + name + `"]`,
			Value:    "checked",
			Kind:     models.KindCheckbox,
			Applied:  ok,
		})
		if ok {
			fl.log.Debugf("checked %s", name)
		} else {
			res.Missing = append(res.Missing, name)
		}
	}
}

func (fl *Filler) set(f Form, res *models.FillResult, field, selector, value string, kind models.FieldKind) {
	ok := selector != "" && f.SetField(selector, value)
	res.Assignments = append(res.Assignments, models.Assignment{
		Field:    field,
		Selector: selector,
		Value:    value,
		Kind:     kind,
		Applied:  ok,
	})
	if ok {
		fl.log.Debugf("filled %s -> %s", field, value)
		return
	}
	res.Missing = append(res.Missing, field)
}
