// Package config resolves runtime settings from defaults, an optional
// toolbox.yaml, TOOLBOX_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lmj0209/tool-website/internal/catalog/source"
)

const (
	envPrefix          = "TOOLBOX"
	defaultConfigName  = "toolbox"
	defaultPort        = "8080"
	defaultDataFile    = "data/tools.json"
	defaultSiteTitle   = "工具箱"
	defaultEnvironment = "development"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Environment string     `mapstructure:"environment"`
	HTTP        HTTPConfig `mapstructure:"http"`
	Data        DataConfig `mapstructure:"data"`
	Load        LoadConfig `mapstructure:"load"`
	Site        SiteConfig `mapstructure:"site"`
	Log         LogConfig  `mapstructure:"log"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// HTTPConfig configures the listener.
type HTTPConfig struct {
	Addr     string `mapstructure:"addr"`
	BasePath string `mapstructure:"base_path"`
}

// DataConfig locates the catalog document.
type DataConfig struct {
	// Location is a local path, an http(s):// URL or a gs://bucket/object.
	Location string `mapstructure:"location"`
	// Watch reloads a local data file when it changes on disk.
	Watch bool `mapstructure:"watch"`
}

// LoadConfig bounds the one-time catalog load. Zero waits indefinitely.
type LoadConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// SiteConfig holds page chrome.
type SiteConfig struct {
	Title    string `mapstructure:"title"`
	Intro    string `mapstructure:"intro"`
	AllLabel string `mapstructure:"all_label"`
	AllIcon  string `mapstructure:"all_icon"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"addr":         "http.addr",
	"base-path":    "http.base_path",
	"data":         "data.location",
	"watch":        "data.watch",
	"load-timeout": "load.timeout",
	"log-level":    "log.level",
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file; it must exist when set.
	File string
	// Flags are bound over every other source when they were set.
	Flags *pflag.FlagSet
}

// Load resolves the configuration.
func Load(opts Options) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if flag := opts.Flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var file string
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || opts.File != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		file = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = file
	cfg.normalise()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = defaultPort
	}
	v.SetDefault("environment", defaultEnvironment)
	v.SetDefault("http.addr", ":"+port)
	v.SetDefault("http.base_path", "/")
	v.SetDefault("data.location", defaultDataFile)
	v.SetDefault("data.watch", false)
	v.SetDefault("load.timeout", time.Duration(0))
	v.SetDefault("site.title", defaultSiteTitle)
	v.SetDefault("site.intro", "")
	v.SetDefault("site.all_label", "")
	v.SetDefault("site.all_icon", "")
	v.SetDefault("log.level", "info")
}

func (c *Config) normalise() {
	c.Environment = strings.TrimSpace(c.Environment)
	c.HTTP.Addr = strings.TrimSpace(c.HTTP.Addr)
	c.HTTP.BasePath = strings.TrimSpace(c.HTTP.BasePath)
	c.Data.Location = strings.TrimSpace(c.Data.Location)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	var errs []error
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("config: http.addr is required"))
	}
	if c.Data.Location == "" {
		errs = append(errs, errors.New("config: data.location is required"))
	}
	if c.Load.Timeout < 0 {
		errs = append(errs, fmt.Errorf("config: load.timeout must not be negative, got %s", c.Load.Timeout))
	}
	if c.Data.Watch && !c.IsLocalData() {
		errs = append(errs, fmt.Errorf("config: data.watch needs a local data file, got %q", c.Data.Location))
	}
	return errors.Join(errs...)
}

// IsLocalData reports whether the data location is a path on this machine.
func (c Config) IsLocalData() bool {
	return source.IsLocal(c.Data.Location)
}

// IsProduction reports whether the environment is labelled production.
func (c Config) IsProduction() bool {
	switch strings.ToLower(c.Environment) {
	case "prod", "production":
		return true
	default:
		return false
	}
}
