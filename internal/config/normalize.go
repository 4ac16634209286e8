package config

import (
	"os"
	"strings"
)

// normalize trims values and fills anything left unset with the defaults.
// Explicitly empty lists (checkboxes = []) are kept.
func (c *Config) normalize() {
	def := Default()
	c.normalizeSite(def)
	c.normalizeFetch(def)
	c.normalizeServer(def)
	c.normalizeLogging(def)
}

func (c *Config) normalizeSite(def Config) {
	s, d := &c.Site, def.Site
	fill := func(v *string, fallback string) {
		*v = strings.TrimSpace(*v)
		if *v == "" {
			*v = fallback
		}
	}
	fill(&s.SubtitleSelector, d.SubtitleSelector)
	fill(&s.TechInfoSelector, d.TechInfoSelector)
	fill(&s.TechInfoFallback, d.TechInfoFallback)
	fill(&s.DescriptionSelector, d.DescriptionSelector)
	fill(&s.IMDbSelector, d.IMDbSelector)
	fill(&s.TitleSelector, d.TitleSelector)
	fill(&s.ResolutionSelector, d.ResolutionSelector)
	fill(&s.VideoCodecSelector, d.VideoCodecSelector)
	fill(&s.AudioCodecSelector, d.AudioCodecSelector)
	if s.Fixed == nil {
		s.Fixed = d.Fixed
	}
	if s.Checkboxes == nil {
		s.Checkboxes = d.Checkboxes
	}
	for i := range s.Fixed {
		s.Fixed[i].Field = strings.TrimSpace(s.Fixed[i].Field)
		s.Fixed[i].Selector = strings.TrimSpace(s.Fixed[i].Selector)
		s.Fixed[i].Value = strings.TrimSpace(s.Fixed[i].Value)
	}
}

func (c *Config) normalizeFetch(def Config) {
	f := &c.Fetch
	if env := strings.TrimSpace(os.Getenv("PTFILL_COOKIE")); env != "" {
		f.Cookie = env
	}
	f.Cookie = strings.TrimSpace(f.Cookie)
	if strings.TrimSpace(f.UserAgent) == "" {
		f.UserAgent = def.Fetch.UserAgent
	}
	if f.TimeoutSeconds == 0 {
		f.TimeoutSeconds = def.Fetch.TimeoutSeconds
	}
	if f.DialTimeoutSeconds == 0 {
		f.DialTimeoutSeconds = def.Fetch.DialTimeoutSeconds
	}
	if f.SizeCapBytes == 0 {
		f.SizeCapBytes = def.Fetch.SizeCapBytes
	}
	// negative disables rate limiting
	switch {
	case f.RatePerSecond == 0:
		f.RatePerSecond = def.Fetch.RatePerSecond
	case f.RatePerSecond < 0:
		f.RatePerSecond = 0
	}
}

func (c *Config) normalizeServer(def Config) {
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.Concurrency == 0 {
		c.Server.Concurrency = def.Server.Concurrency
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = def.Server.MaxBodyBytes
	}
}

func (c *Config) normalizeLogging(def Config) {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
}
