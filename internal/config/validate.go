package config

import (
	"fmt"

	"github.com/tgienger/postit/internal/models"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	if _, err := models.ParsePriority(c.Defaults.TaskPriority); err != nil {
		return fmt.Errorf("defaults.task_priority: %w", err)
	}
	if _, err := models.ParseFilter(c.Defaults.Filter); err != nil {
		return fmt.Errorf("defaults.filter: %w", err)
	}
	return nil
}

// DefaultPriority returns the configured priority for new tasks.
func (c *Config) DefaultPriority() models.Priority {
	p, err := models.ParsePriority(c.Defaults.TaskPriority)
	if err != nil {
		return models.PriorityLow
	}
	return p
}

// DefaultFilter returns the configured initial task filter.
func (c *Config) DefaultFilter() models.Filter {
	f, err := models.ParseFilter(c.Defaults.Filter)
	if err != nil {
		return models.FilterAll
	}
	return f
}
