package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all application configuration values
type Config struct {
	Registration RegistrationConfig `mapstructure:"registration"`
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
}

// RegistrationConfig points at the remote waitlist endpoint
type RegistrationConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServerConfig controls the HTTP listener and gin
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig selects the zap level, encoding and output file
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
	File     string `mapstructure:"file"`
}

// TracingConfig enables the stdout span exporter
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// Defaults returns the configuration used when nothing is overridden
func Defaults() Config {
	return Config{
		Registration: RegistrationConfig{
			URL:     "http://localhost:3400/waitlist/register",
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Port:           "8080",
			Mode:           "debug",
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
		},
		Tracing: TracingConfig{
			ServiceName: "waitlist",
		},
	}
}

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"registration-url": "registration.url",
	"port":             "server.port",
	"log-level":        "log.level",
	"log-file":         "log.file",
}

// LoadConfig reads configuration from defaults, an optional YAML file,
// environment variables (WAITLIST_*, plus PORT) and command line flags,
// in increasing order of precedence.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded")
	}

	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix("WAITLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", "WAITLIST_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("binding PORT: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("registration.url", d.Registration.URL)
	v.SetDefault("registration.timeout", d.Registration.Timeout)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.encoding", d.Log.Encoding)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// Validate rejects settings the service cannot run with
func (c Config) Validate() error {
	u, err := url.Parse(c.Registration.URL)
	if err != nil {
		return fmt.Errorf("invalid registration.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("invalid registration.url %q: must be an absolute http(s) URL", c.Registration.URL)
	}
	if c.Registration.Timeout <= 0 {
		return errors.New("registration.timeout must be positive")
	}
	if c.Server.Port == "" {
		return errors.New("server.port cannot be empty")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server.mode %q: must be debug, release or test", c.Server.Mode)
	}
	return nil
}
