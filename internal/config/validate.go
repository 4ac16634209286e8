package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSite(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if c.Server.Concurrency < 1 {
		return fmt.Errorf("server.concurrency must be positive, got %d", c.Server.Concurrency)
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New("server.max_body_bytes must not be negative")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateSite() error {
	for i, fx := range c.Site.Fixed {
		if fx.Selector == "" || fx.Value == "" {
			return fmt.Errorf("site.fixed[%d]: selector and value are required", i)
		}
		if fx.Field == "" {
			return fmt.Errorf("site.fixed[%d]: field name is required", i)
		}
	}
	for i, name := range c.Site.Checkboxes {
		if name == "" {
			return fmt.Errorf("site.checkboxes[%d]: empty name", i)
		}
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.TimeoutSeconds < 0 || c.Fetch.DialTimeoutSeconds < 0 {
		return errors.New("fetch timeouts must not be negative")
	}
	if c.Fetch.SizeCapBytes < 0 {
		return errors.New("fetch.size_cap_bytes must not be negative")
	}
	return nil
}
