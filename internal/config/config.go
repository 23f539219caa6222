package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrInvalidPolicy is returned by Validate for an unknown failure_policy.
	ErrInvalidPolicy = errors.New("invalid failure policy")
	// ErrInvalidSource is returned by Validate for an unknown source kind.
	ErrInvalidSource = errors.New("invalid source kind")
	// ErrInvalidLogLevel is returned by Validate for an unknown log_level.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Source kinds accepted in [source] kind. An empty kind picks the platform
// default.
const (
	SourcePowerShell = "powershell"
	SourceLocal      = "local"
	SourceSNMP       = "snmp"
)

// SNMPConfig holds the [source.snmp] table.
type SNMPConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	Version   string `toml:"version"`
	Community string `toml:"community"`
	Username  string `toml:"username"`
	AuthProto string `toml:"auth_proto"`
	AuthPass  string `toml:"auth_pass"`
	PrivProto string `toml:"priv_proto"`
	PrivPass  string `toml:"priv_pass"`
}

// SourceConfig holds the [source] table.
type SourceConfig struct {
	Kind              string        `toml:"kind"`
	Shell             string        `toml:"shell"`
	SampleInterval    time.Duration `toml:"-"`
	SampleIntervalStr string        `toml:"sample_interval"`
	SNMP              SNMPConfig    `toml:"snmp"`
}

type Config struct {
	Theme           string        `toml:"theme"`
	PollInterval    time.Duration `toml:"-"`
	PollIntervalStr string        `toml:"poll_interval"`
	Capacity        int           `toml:"capacity"`
	FailurePolicy   string        `toml:"failure_policy"`
	LabelLayout     string        `toml:"label_layout"`
	FetchTimeout    time.Duration `toml:"-"`
	FetchTimeoutStr string        `toml:"fetch_timeout"`
	LogLevel        string        `toml:"log_level"`
	AutoStart       bool          `toml:"auto_start"`
	Source          SourceConfig  `toml:"source"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme:           "solarized-dark",
		PollInterval:    2 * time.Second,
		PollIntervalStr: "2s",
		Capacity:        20,
		FailurePolicy:   "resilient",
		LabelLayout:     "15:04:05",
		FetchTimeout:    10 * time.Second,
		FetchTimeoutStr: "10s",
		LogLevel:        "info",
		AutoStart:       true,
		Source: SourceConfig{
			Shell:             "powershell",
			SampleInterval:    time.Second,
			SampleIntervalStr: "1s",
			SNMP: SNMPConfig{
				Port:      161,
				Version:   "2c",
				Community: "public",
			},
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	parseDuration(cfg.PollIntervalStr, &cfg.PollInterval)
	parseDuration(cfg.FetchTimeoutStr, &cfg.FetchTimeout)
	parseDuration(cfg.Source.SampleIntervalStr, &cfg.Source.SampleInterval)
	return cfg, nil
}

// parseDuration overwrites dst when s is a valid duration and leaves the
// default in place otherwise.
func parseDuration(s string, dst *time.Duration) {
	if s == "" {
		return
	}
	if d, err := time.ParseDuration(s); err == nil {
		*dst = d
	}
}

func SaveConfig(cfg *Config, path string) error {
	cfg.PollIntervalStr = cfg.PollInterval.String()
	cfg.FetchTimeoutStr = cfg.FetchTimeout.String()
	cfg.Source.SampleIntervalStr = cfg.Source.SampleInterval.String()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.FailurePolicy {
	case "", "resilient", "fail-fast", "failfast":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, c.FailurePolicy)
	}
	switch c.Source.Kind {
	case "", SourcePowerShell, SourceLocal, SourceSNMP:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSource, c.Source.Kind)
	}
	if c.Source.Kind == SourceSNMP && c.Source.SNMP.Host == "" {
		return fmt.Errorf("%w: snmp source needs [source.snmp] host", ErrInvalidSource)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps a log_level value to a slog level. Empty means info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
}
