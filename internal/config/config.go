// Package config loads the settings of the mman command from a config file,
// MMAN_* environment variables and command line flags.
package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/skyline93/mman/internal/backend"
	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/mirror"
	"github.com/skyline93/mman/internal/mman"
	"github.com/skyline93/mman/internal/repository"
)

// EnvPrefix is the prefix of the environment variables that override
// settings, e.g. MMAN_LANG.
const EnvPrefix = "MMAN"

// Config holds all settings.
type Config struct {
	OS   string `mapstructure:"os"`
	Lang string `mapstructure:"lang"`
	Arch string `mapstructure:"arch"`

	CacheDir     string        `mapstructure:"cache_dir"`
	RaceTimeout  time.Duration `mapstructure:"race_timeout"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	MaxRetries   uint64        `mapstructure:"max_retries"`
	FilenameMode string        `mapstructure:"filename_mode"`
	RootSites    []string      `mapstructure:"root_sites"`
	AllowedHosts []string      `mapstructure:"allowed_hosts"`

	LogLevel      string `mapstructure:"log_level"`
	LogFile       string `mapstructure:"log_file"`
	LogMaxSize    int    `mapstructure:"log_max_size"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
}

// Identity returns the dataset the config selects.
func (c *Config) Identity() mman.Identity {
	return mman.Identity{OS: c.OS, Lang: c.Lang, Arch: c.Arch}
}

// BackendOptions returns the options of the HTTP backend.
func (c *Config) BackendOptions() backend.Options {
	opts := backend.DefaultOptions
	opts.Timeout = c.HTTPTimeout
	opts.MaxRetries = c.MaxRetries
	return opts
}

// SetDefaults registers the default of every setting with v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("os", "fb")
	v.SetDefault("lang", "eng")
	v.SetDefault("arch", "arm64")
	v.SetDefault("cache_dir", "")
	v.SetDefault("race_timeout", mirror.DefaultTimeout.String())
	v.SetDefault("http_timeout", backend.DefaultOptions.Timeout.String())
	v.SetDefault("max_retries", backend.DefaultOptions.MaxRetries)
	v.SetDefault("filename_mode", repository.ModeHash)
	v.SetDefault("root_sites", repository.DefaultRootSites)
	v.SetDefault("allowed_hosts", repository.DefaultAllowedHosts)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size", 10)
	v.SetDefault("log_max_backups", 3)
}

// DefaultFile returns the config file used when none is given.
func DefaultFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mman", "config.toml")
}

// Load reads the settings into a Config. A missing default config file is
// not an error, a missing file that was asked for is.
func Load(v *viper.Viper, filename string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	explicit := filename != ""
	if !explicit {
		filename = DefaultFile()
	}

	if filename != "" {
		if _, err := os.Stat(filename); err == nil || explicit {
			v.SetConfigFile(filename)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Fatalf(errors.ErrConfig, "unable to read config file: %v", err)
			}
			log.Debugf("using config file %v", filename)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, errors.Fatalf(errors.ErrConfig, "unable to parse config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if err := c.Identity().Validate(); err != nil {
		return err
	}

	switch c.FilenameMode {
	case repository.ModeHash, repository.ModeRaw:
	default:
		return errors.Fatalf(errors.ErrConfig, "invalid filename_mode %q", c.FilenameMode)
	}

	if c.RaceTimeout <= 0 {
		return errors.Fatalf(errors.ErrConfig, "race_timeout must be positive, got %v", c.RaceTimeout)
	}
	if c.HTTPTimeout < 0 {
		return errors.Fatalf(errors.ErrConfig, "http_timeout must not be negative, got %v", c.HTTPTimeout)
	}
	if len(c.RootSites) == 0 {
		return errors.Fatal(errors.ErrConfig, "root_sites is empty")
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Fatalf(errors.ErrConfig, "invalid log_level: %v", err)
	}
	return nil
}

// durationDecodeHook accepts Go duration strings and plain seconds.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(time.Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			v = strings.TrimSpace(v)
			if v == "" {
				return time.Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return parsed, nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return time.Duration(seconds * float64(time.Second)), nil
			}
			return nil, errors.Errorf("invalid duration %q", v)
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		case time.Duration:
			return v, nil
		default:
			return nil, errors.Errorf("unsupported duration type %T", v)
		}
	}
}
