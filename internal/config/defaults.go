package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultConfigPath      = "~/.config/postit/config.toml"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultProjectName     = "Inbox"
	defaultProjectColor    = "blue"
	defaultTaskPriority    = "baixa"
	defaultTaskColor       = "blue"
	defaultFilter          = "all"
	defaultTimestampLayout = "2006-01-02 15:04:05"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		// LogDir defaults to <DataDir>/logs during normalization
		Paths: Paths{
			DataDir: defaultDataDir(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Defaults: Defaults{
			ProjectName:  defaultProjectName,
			ProjectColor: defaultProjectColor,
			TaskPriority: defaultTaskPriority,
			TaskColor:    defaultTaskColor,
			Filter:       defaultFilter,
		},
		Display: Display{
			TimestampLayout: defaultTimestampLayout,
		},
	}
}

func defaultDataDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "postit")
	}
	return "~/.local/share/postit"
}
