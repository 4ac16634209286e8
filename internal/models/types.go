package models

import (
	"errors"
	"strconv"
	"strings"
)

// Code is a categorical form value (resolution, video codec or audio codec).
// The zero value means no evidence was found.
type Code int

const NoCode Code = 0

// Resolution codes.
const (
	Res1080p Code = 1
	Res1080i Code = 2
	Res720p  Code = 3
	ResSD    Code = 4
	Res2160p Code = 5
	Res4320p Code = 6
	Res1440p Code = 7
)

// Video codec codes.
const (
	VideoAVC   Code = 1
	VideoVC1   Code = 2
	VideoMPEG2 Code = 4
	VideoHEVC  Code = 7
)

// Audio codec codes.
const (
	AudioFLAC  Code = 1
	AudioDTS   Code = 3
	AudioMP3   Code = 4
	AudioAAC   Code = 6
	AudioDTSHD Code = 11
	AudioAC3   Code = 14
)

func (c Code) Valid() bool { return c != NoCode }

// String returns the form value for c, or "" when absent.
func (c Code) String() string {
	if c == NoCode {
		return ""
	}
	return strconv.Itoa(int(c))
}

type Classification struct {
	Resolution      Code              `json:"resolution,omitempty"`
	VideoCodec      Code              `json:"videoCodec,omitempty"`
	AudioCodec      Code              `json:"audioCodec,omitempty"`
	TitleResolution Code              `json:"titleResolution,omitempty"`
	Evidence        map[string]string `json:"evidence,omitempty"`
}

var ErrInvalidPayload = errors.New("invalid publish payload: mediainfo and title are required")

// Payload is the publish JSON written by the seed script.
type Payload struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	MediaInfo   string `json:"mediainfo"`
	Description string `json:"description,omitempty"`
	IMDb        string `json:"imdb,omitempty"`
}

func (p Payload) Validate() error {
	if strings.TrimSpace(p.MediaInfo) == "" || strings.TrimSpace(p.Title) == "" {
		return ErrInvalidPayload
	}
	return nil
}

type FieldKind string

const (
	KindText     FieldKind = "text"
	KindSelect   FieldKind = "select"
	KindCheckbox FieldKind = "checkbox"
)

type Assignment struct {
	Field    string    `json:"field"`
	Selector string    `json:"selector"`
	Value    string    `json:"value,omitempty"`
	Kind     FieldKind `json:"kind"`
	Applied  bool      `json:"applied"`
}

type FillResult struct {
	Mode        string         `json:"mode"`
	Class       Classification `json:"class"`
	Assignments []Assignment   `json:"assignments"`
	Missing     []string       `json:"missing,omitempty"`
}

// FormField describes one named control found on an upload page.
type FormField struct {
	Name    string    `json:"name"`
	Kind    FieldKind `json:"kind"`
	Value   string    `json:"value,omitempty"`
	Options []string  `json:"options,omitempty"`
}

type UploadPage struct {
	Title  string      `json:"title,omitempty"`
	Action string      `json:"action,omitempty"`
	Fields []FormField `json:"fields,omitempty"`
}

type ClassifyResult struct {
	Title string          `json:"title,omitempty"`
	Class *Classification `json:"class,omitempty"`
	Error string          `json:"error,omitempty"`
}
