package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Attachments struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"attachments"`
	Logging struct {
		Path  string `mapstructure:"path"`
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
	UI struct {
		RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	} `mapstructure:"ui"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-"`
}

// Overrides are values from command line flags; empty fields are ignored
type Overrides struct {
	DBPath         string
	AttachmentsDir string
	LogLevel       string
}

// DataDir returns the directory holding the database, attachments and logs.
// It follows XDG_DATA_HOME and falls back to ~/.local/share.
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "todo"), nil
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "todo")
}

// Load reads configuration from defaults, an optional YAML file, TODO_*
// environment variables and finally the flag overrides.
func Load(cfgFile string, o Overrides) (*Config, error) {
	dataDir, err := DataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	v := viper.New()
	v.SetDefault("database.path", filepath.Join(dataDir, "todo.db"))
	v.SetDefault("attachments.dir", filepath.Join(dataDir, "images"))
	v.SetDefault("logging.path", filepath.Join(dataDir, "todo.log"))
	v.SetDefault("logging.level", "INFO")
	v.SetDefault("ui.refresh_interval", time.Minute)

	if cfgFile != "" {
		path, err := ExpandTilde(cfgFile)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}
	v.SetConfigType("yaml")

	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{File: v.ConfigFileUsed()}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if o.DBPath != "" {
		cfg.Database.Path = o.DBPath
	}
	if o.AttachmentsDir != "" {
		cfg.Attachments.Dir = o.AttachmentsDir
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = strings.ToUpper(o.LogLevel)
	}
	if cfg.UI.RefreshInterval <= 0 {
		cfg.UI.RefreshInterval = time.Minute
	}

	for _, p := range []*string{&cfg.Database.Path, &cfg.Attachments.Dir, &cfg.Logging.Path} {
		if *p, err = ExpandTilde(*p); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// ExpandTilde replaces a leading ~ with the user's home directory
func ExpandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
