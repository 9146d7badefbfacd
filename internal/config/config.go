// Package config provides configuration management for docshell using Viper
// for flexible loading from files, environment variables, and command-line
// flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the DOCSHELL_ prefix, and validation. It manages server
// settings, content catalog locations, and development options like hot
// reload.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Content     ContentConfig     `yaml:"content"`
	Development DevelopmentConfig `yaml:"development"`
	Log         LogConfig         `yaml:"log"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type ContentConfig struct {
	// Dir is the directory holding one HTML fragment per topic slug.
	Dir string `yaml:"dir"`
	// Catalog optionally points at a docshell.catalog.yml manifest; when
	// empty the built-in catalog is used.
	Catalog string `yaml:"catalog"`
}

type DevelopmentConfig struct {
	HotReload bool `yaml:"hot_reload"`
	// Toasts controls whether reload and load-failure notices are pushed
	// to connected clients.
	Toasts bool `yaml:"toasts"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load builds the configuration from viper's merged sources and applies
// defaults for anything left unset.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if config.Server.Port == 0 {
		config.Server.Port = viper.GetInt("server.port")
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.Host == "" {
		config.Server.Host = viper.GetString("server.host")
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}

	if config.Content.Dir == "" {
		config.Content.Dir = viper.GetString("content.dir")
	}
	if config.Content.Dir == "" {
		config.Content.Dir = "./content"
	}
	if config.Content.Catalog == "" {
		config.Content.Catalog = viper.GetString("content.catalog")
	}

	// Bool handling goes through viper directly so explicit false in the
	// config file is honored.
	if viper.IsSet("development.hot_reload") {
		config.Development.HotReload = viper.GetBool("development.hot_reload")
	} else {
		config.Development.HotReload = true
	}
	if viper.IsSet("development.toasts") {
		config.Development.Toasts = viper.GetBool("development.toasts")
	} else {
		config.Development.Toasts = true
	}

	if config.Log.Level == "" {
		config.Log.Level = viper.GetString("log-level")
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks configuration invariants before the server starts.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d: must be between 1 and 65535", c.Server.Port)
	}
	if c.Server.Host == "" {
		return fmt.Errorf("server host must not be empty")
	}
	if strings.TrimSpace(c.Content.Dir) == "" {
		return fmt.Errorf("content dir must not be empty")
	}
	if !filepath.IsLocal(c.Content.Dir) && !filepath.IsAbs(c.Content.Dir) {
		return fmt.Errorf("content dir %q must be a local or absolute path", c.Content.Dir)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be debug, info, warn, or error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", c.Log.Format)
	}
	return nil
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
