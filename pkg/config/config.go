package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	ModeLive = "live"
	ModeMock = "mock"
)

type Config struct {
	Environment string    `yaml:"environment" default:"development" validate:"required"`
	Server      Server    `yaml:"server"`
	Log         Log       `yaml:"log"`
	Metrics     Metrics   `yaml:"metrics"`
	RateLimit   RateLimit `yaml:"ratelimit"`
	Upstox      Upstox    `yaml:"upstox"`
	Swing       Swing     `yaml:"swing"`
}

type Server struct {
	Port            int           `yaml:"port" default:"3000" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"5m"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	BodyLimit       string        `yaml:"body_limit" default:"1M"`
	CORS            bool          `yaml:"cors" default:"true"`
}

type Log struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error fatal panic"`
	Format string `yaml:"format" default:"json" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout"`
}

type Metrics struct {
	Enabled       bool          `yaml:"enabled" default:"true"`
	Path          string        `yaml:"path" default:"/metrics"`
	SlowThreshold time.Duration `yaml:"slow_threshold" default:"10s"`
}

// RateLimit bounds inbound calculate requests per client address.
type RateLimit struct {
	Enabled      bool    `yaml:"enabled" default:"true"`
	Capacity     float64 `yaml:"capacity" default:"10" validate:"gte=1"`
	RefillPerSec float64 `yaml:"refill_per_sec" default:"1" validate:"gt=0"`
}

type Upstox struct {
	Mode              string        `yaml:"mode" default:"live" validate:"oneof=live mock"`
	BaseURL           string        `yaml:"base_url" default:"https://api.upstox.com/v3" validate:"required,url"`
	AccessToken       string        `yaml:"access_token"`
	RequestTimeout    time.Duration `yaml:"request_timeout" default:"30s" validate:"gt=0"`
	RequestsPerSecond float64       `yaml:"requests_per_second" default:"25" validate:"gt=0"`
	Burst             int           `yaml:"burst" default:"1" validate:"gte=1"`
	MaxRetries        int           `yaml:"max_retries" default:"3" validate:"gte=0"`
	ShrinkDays        int           `yaml:"shrink_days" default:"10" validate:"gte=1"`
	RetryBackoff      time.Duration `yaml:"retry_backoff" default:"1s" validate:"gte=0"`
	ChunkDelay        time.Duration `yaml:"chunk_delay" default:"200ms" validate:"gte=200ms"`
	ChunkMonths       ChunkMonths   `yaml:"chunk_months"`
}

// ChunkMonths holds chunk widths in months. Minutes15 applies to the 15 minute
// timeframe, Default to every other chunked timeframe.
type ChunkMonths struct {
	Minutes15 int `yaml:"minutes_15" default:"1" validate:"gte=1"`
	Default   int `yaml:"default" default:"1" validate:"gte=1"`
}

type Swing struct {
	Window     int  `yaml:"window" default:"5" validate:"gte=1"`
	Indicators bool `yaml:"indicators" default:"true"`
}

// envOverrides lists the environment variables that take precedence over the file.
type envOverrides struct {
	Environment       string `envconfig:"APP_ENV"`
	Port              int    `envconfig:"PORT"`
	LogLevel          string `envconfig:"LOG_LEVEL"`
	LogFormat         string `envconfig:"LOG_FORMAT"`
	UpstoxMode        string `envconfig:"UPSTOX_MODE"`
	UpstoxBaseURL     string `envconfig:"UPSTOX_BASE_URL"`
	UpstoxAccessToken string `envconfig:"UPSTOX_ACCESS_TOKEN"`
	SwingWindow       int    `envconfig:"SWING_WINDOW"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	env.apply(c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func load(path string) (*Config, error) {
	var c Config
	// defaults first so keys present in the file, including false booleans, win
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &c, nil
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

func (e envOverrides) apply(c *Config) {
	if e.Environment != "" {
		c.Environment = e.Environment
	}
	if e.Port != 0 {
		c.Server.Port = e.Port
	}
	if e.LogLevel != "" {
		c.Log.Level = e.LogLevel
	}
	if e.LogFormat != "" {
		c.Log.Format = e.LogFormat
	}
	if e.UpstoxMode != "" {
		c.Upstox.Mode = e.UpstoxMode
	}
	if e.UpstoxBaseURL != "" {
		c.Upstox.BaseURL = e.UpstoxBaseURL
	}
	if e.UpstoxAccessToken != "" {
		c.Upstox.AccessToken = e.UpstoxAccessToken
	}
	if e.SwingWindow != 0 {
		c.Swing.Window = e.SwingWindow
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}
