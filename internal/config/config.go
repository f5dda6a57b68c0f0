// Package config loads the onboarding configuration file.
package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/onboarding/internal/logging"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/flows"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the file read when --config is not given.
const DefaultPath = "onboarding.yaml"

// Config is the whole configuration file.
type Config struct {
	Flow         string         `yaml:"flow" json:"flow"`
	Locale       domain.Locale  `yaml:"locale" json:"locale"`
	LogLevel     string         `yaml:"log_level" json:"log_level"`
	LogFormat    logging.Format `yaml:"log_format" json:"log_format"`
	RevertOnBack bool           `yaml:"revert_on_back" json:"revert_on_back"`
	SessionsDir  string         `yaml:"sessions_dir" json:"sessions_dir"`
	HTTP         HTTP           `yaml:"http" json:"http"`
	Metrics      Metrics        `yaml:"metrics" json:"metrics"`
	Redis        Redis          `yaml:"redis" json:"redis"`
	Encryption   Encryption     `yaml:"encryption" json:"encryption"`
}

// HTTP configures `serve`.
type HTTP struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Metrics configures the Prometheus endpoint of `serve`.
type Metrics struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
}

// Redis configures the shared session store. An empty Addr disables it.
type Redis struct {
	Addr     string   `yaml:"addr" json:"addr"`
	Password string   `yaml:"password" json:"password"`
	DB       int      `yaml:"db" json:"db"`
	Prefix   string   `yaml:"prefix" json:"prefix"`
	TTL      Duration `yaml:"ttl" json:"ttl"`
	LockTTL  Duration `yaml:"lock_ttl" json:"lock_ttl"`
}

// Enabled reports whether a Redis address is configured.
func (r Redis) Enabled() bool { return r.Addr != "" }

// EnvEncryptionKey overrides Encryption.Key, keeping the key out of files.
const EnvEncryptionKey = "ONBOARDING_ENCRYPTION_KEY"

// Encryption configures encryption at rest of stored sessions. Keys are
// base64 encoded AES-256 keys. An empty Key disables it.
type Encryption struct {
	Key          string   `yaml:"key" json:"key"`
	FallbackKeys []string `yaml:"fallback_keys" json:"fallback_keys"`
}

// Enabled reports whether an active key is configured.
func (e Encryption) Enabled() bool { return e.Key != "" }

// Keys decodes the active and fallback keys.
func (e Encryption) Keys() (active []byte, fallback [][]byte, err error) {
	active, err = decodeKey(e.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("key: %w", err)
	}
	for i, k := range e.FallbackKeys {
		b, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, b)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	return b, nil
}

// Duration is a time.Duration written as "30s", "24h" in files.
type Duration time.Duration

// Std returns the standard library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// UnmarshalYAML accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = string(data)
	}
	return d.parse(s)
}

// MarshalYAML writes the duration string.
func (d Duration) MarshalYAML() (any, error) { return d.String(), nil }

// MarshalJSON writes the duration string.
func (d Duration) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		*d = 0
		return nil
	}
	if v, err := time.ParseDuration(s); err == nil {
		*d = Duration(v)
		return nil
	}
	var secs float64
	if _, err := fmt.Sscanf(s, "%g", &secs); err == nil {
		*d = Duration(time.Duration(secs * float64(time.Second)))
		return nil
	}
	return fmt.Errorf("invalid duration %q", s)
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Flow:        flows.NameWellness,
		Locale:      domain.LocaleFR,
		LogLevel:    "info",
		LogFormat:   logging.FormatText,
		SessionsDir: filepath.Join(".onboarding", "sessions"),
		HTTP:        HTTP{Addr: ":8080"},
		Metrics:     Metrics{Enabled: true, Path: "/metrics"},
		Redis: Redis{
			Prefix:  "onboarding:session:",
			TTL:     Duration(30 * 24 * time.Hour),
			LockTTL: Duration(30 * time.Second),
		},
	}
}

// Load reads a YAML file, or a JSON file when the extension is .json, over
// the defaults. A missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnv()
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if key := os.Getenv(EnvEncryptionKey); key != "" {
		c.Encryption.Key = key
	}
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(flows.Names(), strings.ToLower(c.Flow)) {
		errs = append(errs, fmt.Errorf("flow: unknown flow %q (available: %s)", c.Flow, strings.Join(flows.Names(), ", ")))
	}
	if c.Locale != domain.LocaleFR && c.Locale != domain.LocaleUS {
		errs = append(errs, fmt.Errorf("locale: unsupported locale %q", c.Locale))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.LogFormat != logging.FormatText && c.LogFormat != logging.FormatJSON {
		errs = append(errs, fmt.Errorf("log_format: unsupported format %q", c.LogFormat))
	}
	if c.Redis.TTL < 0 || c.Redis.LockTTL < 0 {
		errs = append(errs, errors.New("redis: durations must not be negative"))
	}
	if c.Encryption.Enabled() {
		if _, _, err := c.Encryption.Keys(); err != nil {
			errs = append(errs, fmt.Errorf("encryption: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
