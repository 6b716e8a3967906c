package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address            string `validate:"required"`
		DebugAddress       string
		Host               string
		ShutdownTimeout    time.Duration `validate:"min=0"`
		DisableRequestLogs bool
	}

	CanvasConfig struct {
		School  string
		Token   string
		BaseURL string        `validate:"omitempty,url"`
		Timeout time.Duration `validate:"min=0"`
		PerPage int           `validate:"min=1,max=100"`
	}

	LoaderConfig struct {
		MaxConcurrency int           `validate:"min=0"`
		Timeout        time.Duration `validate:"min=0"`
		// Location is the IANA zone dates are shown in, e.g. America/New_York; empty means the system zone.
		Location string `validate:"omitempty,timezone"`
	}

	Config struct {
		Env          string `validate:"required"`
		Debug        bool
		TestMode     bool
		AppName      string `validate:"required"`
		Build        string
		RollbarToken string

		Server ServerConfig
		Canvas CanvasConfig
		Loader LoaderConfig
	}
)

// NewConfig reads the configuration from the environment.
// ENV selects the environment (DEV by default) and doubles as the env var prefix, e.g. DEV_CANVAS_TOKEN.
// config/.env.<env> under the project root is loaded first when it exists.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Homework")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugAddress", ":4000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("server.disableRequestLogs", false)
	v.SetDefault("canvas.school", "")
	v.SetDefault("canvas.token", "")
	v.SetDefault("canvas.baseURL", "")
	v.SetDefault("canvas.timeout", 15*time.Second)
	v.SetDefault("canvas.perPage", 50)
	v.SetDefault("loader.maxConcurrency", 0)
	v.SetDefault("loader.timeout", 30*time.Second)
	v.SetDefault("loader.location", "")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	workDir := ProjectRoot()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	// the Canvas credentials also answer to their historical unprefixed names
	_ = v.BindEnv("canvas.token", env+"_CANVAS_TOKEN", "CANVAS_TOKEN")
	_ = v.BindEnv("canvas.school", env+"_CANVAS_SCHOOL", "CANVAS_SCHOOL")

	return &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:            v.GetString("server.address"),
			DebugAddress:       v.GetString("server.debugAddress"),
			Host:               v.GetString("server.host"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			DisableRequestLogs: v.GetBool("server.disableRequestLogs"),
		},
		Canvas: CanvasConfig{
			School:  v.GetString("canvas.school"),
			Token:   v.GetString("canvas.token"),
			BaseURL: v.GetString("canvas.baseURL"),
			Timeout: v.GetDuration("canvas.timeout"),
			PerPage: v.GetInt("canvas.perPage"),
		},
		Loader: LoaderConfig{
			MaxConcurrency: v.GetInt("loader.maxConcurrency"),
			Timeout:        v.GetDuration("loader.timeout"),
			Location:       v.GetString("loader.location"),
		},
	}
}

// Validate checks the loaded values against the struct's validation tags.
func (c *Config) Validate(validate *validator.Validate) error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// TimeLocation loads Location, falling back to the system zone when it is empty or unknown.
func (c LoaderConfig) TimeLocation() *time.Location {
	if c.Location == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return time.Local
	}
	return loc
}
