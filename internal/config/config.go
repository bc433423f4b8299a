package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cyp0633/caldavreport/davclient"
)

// EnvPrefix prefixes every environment override, e.g. CALDAV_REPORT_SERVER_URL
const EnvPrefix = "CALDAV_REPORT"

// DefaultFileName is looked up in the working directory when no file is given
const DefaultFileName = "caldav-report"

// Config represents the command line tool configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Report ReportConfig `mapstructure:"report"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig holds the CalDAV endpoint and its credentials
type ServerConfig struct {
	URL      string        `mapstructure:"url"`      // Base URL of the CalDAV server
	Username string        `mapstructure:"username"` // Basic auth user, empty for none
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"` // Whole request timeout
}

// ReportConfig holds REPORT defaults
type ReportConfig struct {
	Depth string `mapstructure:"depth"` // "0", "1" or "infinity"
	Debug bool   `mapstructure:"debug"` // Dump outgoing requests to stderr
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn or error
}

// Load reads the configuration. An explicit configPath must exist; without
// one, caldav-report.yaml in the working directory is used when present.
// Environment variables override both.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.url", "")
	v.SetDefault("server.username", "")
	v.SetDefault("server.password", "")
	v.SetDefault("server.timeout", 30*time.Second)

	v.SetDefault("report.depth", "1")
	v.SetDefault("report.debug", false)

	v.SetDefault("log.level", "info")
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return errors.New("server.url cannot be empty")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("invalid server.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url must be an http or https URL, got %q", c.Server.URL)
	}
	if (c.Server.Username == "") != (c.Server.Password == "") {
		return errors.New("server.username and server.password must be set together")
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server.timeout cannot be negative: %s", c.Server.Timeout)
	}
	if _, err := c.Depth(); err != nil {
		return fmt.Errorf("invalid report.depth: %w", err)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	return nil
}

// Depth returns the configured REPORT depth
func (c *Config) Depth() (davclient.Depth, error) {
	return davclient.ParseDepth(c.Report.Depth)
}

// LogLevel returns the configured log level
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, err
	}
	return level, nil
}
