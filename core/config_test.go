package core

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("ENV", "test")

		conf := NewConfig()
		assert.Equal(t, "TEST", conf.Env)
		assert.True(t, conf.TestMode)
		assert.Equal(t, "Homework", conf.AppName)
		assert.Equal(t, ":8000", conf.Server.Address)
		assert.Equal(t, 10*time.Second, conf.Server.ShutdownTimeout)
		assert.Equal(t, 15*time.Second, conf.Canvas.Timeout)
		assert.Equal(t, 50, conf.Canvas.PerPage)
		assert.Equal(t, 30*time.Second, conf.Loader.Timeout)
		assert.Empty(t, conf.Loader.Location)
		assert.Equal(t, time.Local, conf.Loader.TimeLocation())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("ENV", "QA")
		t.Setenv("QA_DEBUG", "false")
		t.Setenv("QA_SERVER_ADDRESS", ":9000")
		t.Setenv("QA_LOADER_MAXCONCURRENCY", "4")
		t.Setenv("QA_CANVAS_SCHOOL", "ucl")
		t.Setenv("CANVAS_TOKEN", "s3cr3t")
		t.Setenv("QA_LOADER_LOCATION", "UTC")

		conf := NewConfig()
		assert.Equal(t, "QA", conf.Env)
		assert.False(t, conf.TestMode)
		assert.False(t, conf.Debug)
		assert.Equal(t, ":9000", conf.Server.Address)
		assert.Equal(t, 4, conf.Loader.MaxConcurrency)
		assert.Equal(t, "ucl", conf.Canvas.School)
		assert.Equal(t, "s3cr3t", conf.Canvas.Token)
		assert.Equal(t, time.UTC, conf.Loader.TimeLocation())
	})
}

func TestConfig_Validate(t *testing.T) {
	validate := validator.New()
	InitValidators(validate, NewTranslator())

	valid := func() *Config {
		return &Config{
			Env:     "TEST",
			AppName: "Homework",
			Server:  ServerConfig{Address: ":8000"},
			Canvas:  CanvasConfig{PerPage: 50},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "no address", mutate: func(c *Config) { c.Server.Address = "" }, wantErr: true},
		{name: "per page too small", mutate: func(c *Config) { c.Canvas.PerPage = 0 }, wantErr: true},
		{name: "per page too big", mutate: func(c *Config) { c.Canvas.PerPage = 101 }, wantErr: true},
		{name: "invalid base url", mutate: func(c *Config) { c.Canvas.BaseURL = "lol" }, wantErr: true},
		{name: "base url", mutate: func(c *Config) { c.Canvas.BaseURL = "http://localhost:3000" }},
		{name: "negative concurrency", mutate: func(c *Config) { c.Loader.MaxConcurrency = -1 }, wantErr: true},
		{name: "location", mutate: func(c *Config) { c.Loader.Location = "UTC" }},
		{name: "unknown location", mutate: func(c *Config) { c.Loader.Location = "Mars/Olympus_Mons" }, wantErr: true},
		{name: "local is not a location name", mutate: func(c *Config) { c.Loader.Location = "Local" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := valid()
			tt.mutate(conf)
			err := conf.Validate(validate)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoaderConfig_TimeLocation(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     *time.Location
	}{
		{name: "system zone", location: "", want: time.Local},
		{name: "UTC", location: "UTC", want: time.UTC},
		{name: "unknown zone", location: "Mars/Olympus_Mons", want: time.Local},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LoaderConfig{Location: tt.location}.TimeLocation())
		})
	}
}
