package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DefaultAPIURL is the public consultation service.
const DefaultAPIURL = "https://e-likita-backend-eedl.onrender.com/api"

type Config struct {
	APIURL         string        `mapstructure:"TRIAGE_API_URL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogFile        string        `mapstructure:"LOG_FILE"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	Env            string        `mapstructure:"ENV"`
	MockAPIAddr    string        `mapstructure:"MOCK_API_ADDR"`
}

var keys = []string{
	"TRIAGE_API_URL",
	"REQUEST_TIMEOUT",
	"LOG_FILE",
	"LOG_LEVEL",
	"ENV",
	"MOCK_API_ADDR",
}

// Load reads the configuration from the environment and an optional .env
// file in the working directory.
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("TRIAGE_API_URL", DefaultAPIURL)
	v.SetDefault("REQUEST_TIMEOUT", "0s")
	v.SetDefault("LOG_FILE", filepath.Join(os.TempDir(), "triagewizard.log"))
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENV", "production")
	v.SetDefault("MOCK_API_ADDR", ":8081")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// A missing .env file is not an error.
	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("TRIAGE_API_URL is required")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must not be negative, got %s", c.RequestTimeout)
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}
