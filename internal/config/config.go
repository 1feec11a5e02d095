// Package config loads service configuration from config.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	APIKey   string `mapstructure:"api_key"`
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Server   struct {
		Address         string        `mapstructure:"address"`
		Port            int           `mapstructure:"port" validate:"gte=1,lte=65535"`
		MaxBodyBytes    int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
		CORSOrigins     []string      `mapstructure:"cors_origins"`
	} `mapstructure:"server"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port" validate:"gte=0,lte=65535"`
	} `mapstructure:"metrics"`
	Cache struct {
		Provider string        `mapstructure:"provider" validate:"oneof=none memory redis"`
		Size     int           `mapstructure:"size" validate:"gt=0"`
		TTL      time.Duration `mapstructure:"ttl" validate:"gt=0"`
		Redis    struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db" validate:"gte=0"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	Sentry struct {
		DSN         string `mapstructure:"dsn"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"sentry"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_body_bytes", 10<<20)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("cache.provider", "memory")
	v.SetDefault("cache.size", 1000)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "")
}

// Load reads config.yaml from the working directory or ./config, then applies
// APP_* environment overrides. API_KEY, PORT and LOG_LEVEL are honoured for
// compatibility with existing deployments.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return load(v)
}

// LoadFrom reads configuration from r instead of searching for config.yaml.
func LoadFrom(r io.Reader) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("log_level", "APP_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("api_key", "APP_API_KEY", "API_KEY")
	_ = v.BindEnv("server.port", "APP_SERVER_PORT", "PORT")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}()

// Validate checks field ranges and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", configKey(fe), fe.Tag(), fe.Value()))
		}
		sort.Strings(msgs)
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	if c.Cache.Provider == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("invalid config: cache.redis.address is required when cache.provider is redis")
	}
	return nil
}

// configKey turns "Config.server.port" into "server.port".
func configKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// NewLogger builds the console logger used by the binaries. Unknown levels
// fall back to info with a warning.
func NewLogger(level string, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:     out,
		NoColor: out != os.Stdout,
	}).With().Timestamp().Logger()

	parsed := zerolog.InfoLevel
	if level != "" {
		if l, err := zerolog.ParseLevel(level); err == nil {
			parsed = l
		} else {
			logger.Warn().Str("invalid_level", level).Msg("Invalid log level, using default 'info'")
		}
	}
	return logger.Level(parsed)
}
