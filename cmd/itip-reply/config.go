package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cyp0633/libitip/identity/memory"
)

// SMTPConfig holds the submission server used with -send.
type SMTPConfig struct {
	Addr        string `yaml:"addr"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	ImplicitTLS bool   `yaml:"implicit_tls"`
	// Insecure disables TLS, for local relays only
	Insecure bool `yaml:"insecure"`
}

// Config is the configuration file of itip-reply.
type Config struct {
	// Identity is the key looked up in Identities and the fallback display name.
	Identity string `yaml:"identity"`
	// FallbackAddress is used when Identity has no configured address.
	FallbackAddress string `yaml:"fallback_address"`

	// Hostname is the right-hand side of generated Message-IDs.
	Hostname string `yaml:"hostname"`
	Charset  string `yaml:"charset"`
	// Language selects the reply texts, e.g. "de" or "fr".
	Language  string `yaml:"language"`
	Multipart bool   `yaml:"multipart"`
	UserAgent string `yaml:"user_agent"`

	Identities map[string]memory.Identity `yaml:"identities"`
	SMTP       SMTPConfig                 `yaml:"smtp"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Hostname:   "localhost",
		Charset:    "UTF-8",
		Language:   "en",
		Multipart:  true,
		UserAgent:  "itip-reply",
		Identities: map[string]memory.Identity{},
	}
}

// Normalize fills in missing values with defaults.
func (c *Config) Normalize() {
	if c.Hostname == "" {
		c.Hostname = "localhost"
	}
	if c.Charset == "" {
		c.Charset = "UTF-8"
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.Identities == nil {
		c.Identities = map[string]memory.Identity{}
	}
}

// Validate checks the settings needed to build a reply.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.FallbackAddress) == "" {
		return errors.New("fallback_address is required")
	}
	return nil
}

// LoadConfig reads a YAML configuration. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}
