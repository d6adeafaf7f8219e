package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}

	seen := make(map[string]struct{}, len(c.Sections))
	for _, section := range c.Sections {
		if _, dup := seen[section.Name]; dup {
			return fmt.Errorf("section %q is defined twice", section.Name)
		}
		seen[section.Name] = struct{}{}
	}
	return nil
}
