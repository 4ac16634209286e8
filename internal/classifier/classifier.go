package classifier

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"pt-autofill/internal/mediainfo"
	"pt-autofill/internal/models"
)

// Classifier derives upload form codes from mediainfo text. It holds no state
// and is safe for concurrent use.
type Classifier struct{}

func New() *Classifier { return &Classifier{} }

type rule struct {
	keywords []string
	code     models.Code
}

// order matters: the first rule with a matching keyword wins.
var videoRules = []rule{
	{[]string{"hevc", "h.265"}, models.VideoHEVC},
	{[]string{"avc", "h.264"}, models.VideoAVC},
	{[]string{"vc-1"}, models.VideoVC1},
	{[]string{"mpeg-2"}, models.VideoMPEG2},
}

var titleTokens = map[string]models.Code{
	"4320p": models.Res4320p,
	"2160p": models.Res2160p,
	"1440p": models.Res1440p,
	"1080p": models.Res1080p,
	"1080i": models.Res1080i,
	"720p":  models.Res720p,
	"sd":    models.ResSD,
}

// Numeric tokens only need a non-digit on the left ("BluRay1080p"); "sd" must
// stand alone so words like "Wednesday" are skipped.
var titleRe = regexp.MustCompile(`(?i)(?:^|[^0-9])(4320p|2160p|1440p|1080p|1080i|720p)|(?:^|[^a-z0-9])(sd)(?:[^a-z]|$)`)

// Classify runs every classifier over the metadata text. The title is only
// used for TitleResolution, which keeps its own fallback policy.
func (c *Classifier) Classify(metadata, title string) models.Classification {
	rep := mediainfo.Parse(metadata)
	raw := strings.ToLower(mediainfo.Normalize(metadata))
	ev := map[string]string{}

	out := models.Classification{
		Resolution: resolution(rep, ev),
		VideoCodec: videoCodec(rep, raw, ev),
		AudioCodec: audioCodec(rep, raw, ev),
	}
	if strings.TrimSpace(title) != "" {
		out.TitleResolution = c.ResolutionFromTitle(title)
		ev["title"] = title
	}
	if len(ev) > 0 {
		out.Evidence = ev
	}
	return out
}

// Resolution buckets the first "Height" value. It returns models.NoCode when
// no usable height is present.
func (c *Classifier) Resolution(metadata string) models.Code {
	return resolution(mediainfo.Parse(metadata), nil)
}

// ResolutionFromTitle picks the first resolution token in title and falls
// back to 720p when there is none.
func (c *Classifier) ResolutionFromTitle(title string) models.Code {
	m := titleRe.FindStringSubmatch(mediainfo.Normalize(title))
	if m == nil {
		return models.Res720p
	}
	tok := m[1]
	if tok == "" {
		tok = m[2]
	}
	return titleTokens[strings.ToLower(tok)]
}

func (c *Classifier) VideoCodec(metadata string) models.Code {
	return videoCodec(mediainfo.Parse(metadata), strings.ToLower(mediainfo.Normalize(metadata)), nil)
}

func (c *Classifier) AudioCodec(metadata string) models.Code {
	return audioCodec(mediainfo.Parse(metadata), strings.ToLower(mediainfo.Normalize(metadata)), nil)
}

func resolution(rep mediainfo.Report, ev map[string]string) models.Code {
	raw, ok := rep.First("Height")
	if !ok {
		return models.NoCode
	}
	h, ok := parseHeight(raw)
	if !ok {
		return models.NoCode
	}
	interlaced := false
	if scan, ok := rep.First("Scan type"); ok {
		if word := strings.Fields(scan); len(word) > 0 {
			interlaced = strings.Contains(strings.ToLower(word[0]), "interlaced")
		}
		if ev != nil {
			ev["scan type"] = scan
		}
	}
	if ev != nil {
		ev["height"] = raw
	}

	switch {
	case h >= 4320:
		return models.Res4320p
	case h >= 2160:
		return models.Res2160p
	case h >= 1440:
		return models.Res1440p
	case h >= 1080:
		if interlaced {
			return models.Res1080i
		}
		return models.Res1080p
	case h >= 720:
		return models.Res720p
	default:
		return models.ResSD
	}
}

// parseHeight reads the leading run of digits, spaces and commas ("1 080",
// "2,160") and keeps only the digits.
func parseHeight(v string) (int, bool) {
	var digits strings.Builder
scan:
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == ',' || unicode.IsSpace(r):
		default:
			break scan
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	h, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return h, true
}

func videoCodec(rep mediainfo.Report, raw string, ev map[string]string) models.Code {
	formats := rep.Values("Format")
	for _, r := range videoRules {
		for _, kw := range r.keywords {
			if v, ok := formatMatch(formats, raw, kw); ok {
				if ev != nil {
					ev["video format"] = v
				}
				return r.code
			}
		}
	}
	return models.NoCode
}

func audioCodec(rep mediainfo.Report, raw string, ev map[string]string) models.Code {
	formats := rep.Values("Format")
	note := func(key, v string) {
		if ev != nil {
			ev[key] = v
		}
	}

	if v, ok := formatMatch(formats, raw, "aac"); ok {
		note("audio format", v)
		return models.AudioAAC
	}
	if v, ok := formatMatch(formats, raw, "ac-3"); ok {
		note("audio format", v)
		return models.AudioAC3
	}
	if v, ok := formatMatch(rep.Values("Commercial name"), raw, "dolby digital"); ok {
		note("commercial name", v)
		return models.AudioAC3
	}
	if v, ok := formatMatch(formats, raw, "dts"); ok {
		note("audio format", v)
		if strings.Contains(raw, "dts-hd") {
			return models.AudioDTSHD
		}
		return models.AudioDTS
	}
	if v, ok := formatMatch(formats, raw, "flac"); ok {
		note("audio format", v)
		return models.AudioFLAC
	}
	for _, kw := range []string{"mp3", "mpeg audio"} {
		if v, ok := formatMatch(formats, raw, kw); ok {
			note("audio format", v)
			return models.AudioMP3
		}
	}
	return models.NoCode
}

// formatMatch looks for a value starting with kw. Text that carries no
// key/value fields at all is scanned as a whole instead.
func formatMatch(values []string, raw, kw string) (string, bool) {
	if len(values) > 0 {
		for _, v := range values {
			if strings.HasPrefix(strings.ToLower(v), kw) {
				return v, true
			}
		}
		return "", false
	}
	if strings.Contains(raw, ":") {
		return "", false
	}
	if strings.Contains(raw, kw) {
		return kw, true
	}
	return "", false
}
