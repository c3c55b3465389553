package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeDefaults()
	if strings.TrimSpace(c.Display.TimestampLayout) == "" {
		c.Display.TimestampLayout = defaultTimestampLayout
	}
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("POSTIT_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = value
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir()
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}

	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeDefaults() {
	d := &c.Defaults
	d.ProjectName = strings.TrimSpace(d.ProjectName)
	if d.ProjectName == "" {
		d.ProjectName = defaultProjectName
	}
	d.ProjectColor = strings.ToLower(strings.TrimSpace(d.ProjectColor))
	if d.ProjectColor == "" {
		d.ProjectColor = defaultProjectColor
	}
	d.TaskColor = strings.ToLower(strings.TrimSpace(d.TaskColor))
	if d.TaskColor == "" {
		d.TaskColor = defaultTaskColor
	}
	d.TaskPriority = strings.ToLower(strings.TrimSpace(d.TaskPriority))
	if d.TaskPriority == "" {
		d.TaskPriority = defaultTaskPriority
	}
	d.Filter = strings.ToLower(strings.TrimSpace(d.Filter))
	if d.Filter == "" {
		d.Filter = defaultFilter
	}
}
