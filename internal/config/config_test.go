package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, Host: "localhost"},
		Content: ContentConfig{Dir: "./content"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "empty host", mutate: func(c *Config) { c.Server.Host = "" }},
		{name: "empty content dir", mutate: func(c *Config) { c.Content.Dir = "  " }},
		{name: "traversal content dir", mutate: func(c *Config) { c.Content.Dir = "../outside" }},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "./content", cfg.Content.Dir)
	assert.True(t, cfg.Development.HotReload)
	assert.True(t, cfg.Development.Toasts)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ViperOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("server.port", 3000)
	viper.Set("server.host", "0.0.0.0")
	viper.Set("content.dir", "./docs")
	viper.Set("development.hot_reload", false)
	viper.Set("log-level", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "./docs", cfg.Content.Dir)
	assert.False(t, cfg.Development.HotReload)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("server.port", -1)
	_, err := Load()
	assert.Error(t, err)
}

func TestAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "localhost:8080", cfg.Addr())
}
