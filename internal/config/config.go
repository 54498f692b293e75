// Package config loads service configuration from an optional file and the
// environment using Viper. Environment variables use the URLLOGIN_ prefix with
// dots replaced by underscores, e.g. URLLOGIN_LINK_TIMEOUT.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the service configuration.
type Config struct {
	Link    LinkConfig    `mapstructure:"link"`
	Server  ServerConfig  `mapstructure:"server"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Redis   RedisConfig   `mapstructure:"redis"`
	DB      DBConfig      `mapstructure:"database"`
	JWT     JWTConfig     `mapstructure:"jwt"`
	Pending PendingConfig `mapstructure:"pending"`
	Log     LogConfig     `mapstructure:"log"`
}

// LinkConfig configures login link issuance.
type LinkConfig struct {
	// TimeoutMS is how long, in milliseconds, a code stays redeemable.
	TimeoutMS int64 `mapstructure:"timeout"`
	// DirectOnly restricts issuance to direct messages.
	DirectOnly bool `mapstructure:"direct_only"`
	// SelfURL overrides the public console address; empty falls back to Server.SelfURL.
	SelfURL string `mapstructure:"self_url"`
	// JumpURL is the console page opened after login when the user names none.
	JumpURL string `mapstructure:"jump_url"`
}

type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	SelfURL string `mapstructure:"self_url"`
}

type ChatConfig struct {
	// Secret authenticates the chat bridge calling the command webhook.
	Secret string `mapstructure:"secret"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type DBConfig struct {
	URL string `mapstructure:"url"`
}

type JWTConfig struct {
	// PrivateKey is a PEM encoded EC P-256 key; a key is generated at startup when empty.
	PrivateKey string `mapstructure:"private_key"`
}

type PendingConfig struct {
	SweepIntervalSec int64 `mapstructure:"sweep_interval"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the file at path, if any, then applies environment overrides.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	return decode(v)
}

// LoadFromBytes parses configuration held in memory; configType is any format
// Viper supports, e.g. "yaml" or "json".
func LoadFromBytes(configType string, data []byte) (*Config, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config type is required")
	}

	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("URLLOGIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("link.timeout", 5*60*1000)
	v.SetDefault("link.direct_only", true)
	v.SetDefault("link.self_url", "")
	v.SetDefault("link.jump_url", "")
	v.SetDefault("server.addr", ":9000")
	v.SetDefault("server.self_url", "")
	v.SetDefault("chat.secret", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("database.url", "")
	v.SetDefault("jwt.private_key", "")
	v.SetDefault("pending.sweep_interval", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Link.TimeoutMS <= 0 {
		errs = append(errs, errors.New("link.timeout must be positive"))
	}
	if c.Pending.SweepIntervalSec <= 0 {
		errs = append(errs, errors.New("pending.sweep_interval must be positive"))
	}
	for key, raw := range map[string]string{"link.self_url": c.Link.SelfURL, "server.self_url": c.Server.SelfURL} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL, got %q", key, raw))
		}
	}
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errs = append(errs, fmt.Errorf("server.addr: %w", err))
	}

	return errors.Join(errs...)
}

// LinkTimeout returns link.timeout as a duration.
func (c *Config) LinkTimeout() time.Duration {
	return time.Duration(c.Link.TimeoutMS) * time.Millisecond
}

// SweepInterval returns pending.sweep_interval as a duration.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Pending.SweepIntervalSec) * time.Second
}

// ObservedURL is the address the server listens on, as a URL. Wildcard
// hosts are reported as localhost.
func (c *Config) ObservedURL() string {
	host, port, err := net.SplitHostPort(c.Server.Addr)
	if err != nil {
		return ""
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
