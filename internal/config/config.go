// Package config loads the siteindex configuration.
//
// Resolution order: built-in defaults, then the YAML file, then
// environment variables. Validation happens once after resolution;
// downstream code can assume a valid config.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	siteerrors "github.com/masande/siteindex/internal/errors"
	"github.com/masande/siteindex/internal/schema"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "siteindex.yaml"

// Environment variables overriding file values. The API key in
// particular should come from the pipeline's secret store, not the
// checked-in config file.
const (
	EnvURL      = "SITEINDEX_URL"
	EnvAPIKey   = "SITEINDEX_API_KEY"
	EnvLogLevel = "SITEINDEX_LOG_LEVEL"
)

// Config is the complete siteindex configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Collection CollectionConfig `yaml:"collection"`
	PublicDir  string           `yaml:"public_dir"`
	Exclude    []string         `yaml:"exclude"`
	LogLevel   string           `yaml:"log_level"`
}

// ServerConfig is the search engine connection descriptor.
type ServerConfig struct {
	URL     string `yaml:"url"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

// TimeoutDuration parses the configured timeout.
// Returns zero (client default) when unset or unparsable.
func (s ServerConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// CollectionConfig declares the base collection schema.
type CollectionConfig struct {
	Name   string        `yaml:"name"`
	Fields []FieldConfig `yaml:"fields"`
}

// FieldConfig declares one schema field with its wire type name,
// e.g. {name: tags, type: "string[]"}.
type FieldConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Schema builds the validated field schema from the declaration.
func (c CollectionConfig) Schema() (*schema.Schema, error) {
	fields := make([]schema.Field, 0, len(c.Fields))
	for _, f := range c.Fields {
		ft, array, err := schema.ParseType(f.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, schema.Field{Name: f.Name, Type: ft, Array: array})
	}
	return schema.New(c.Name, fields)
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     "http://localhost:8108",
			Timeout: "5s",
		},
		PublicDir: "public",
		LogLevel:  "info",
	}
}

// Load reads configuration from path, falling back to DefaultFile in
// the working directory. A missing explicit path is an error; a missing
// default file is not, but validation will then fail on the empty
// collection declaration.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, siteerrors.Wrap(siteerrors.ErrCodeConfigInvalid, err)
		}
	case explicit:
		return nil, siteerrors.Wrap(siteerrors.ErrCodeConfigNotFound, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variables over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvURL); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return siteerrors.New(siteerrors.ErrCodeConfigInvalid, "server.url is required", nil)
	}
	if c.PublicDir == "" {
		return siteerrors.New(siteerrors.ErrCodeConfigInvalid, "public_dir is required", nil)
	}
	if c.Collection.Name == "" {
		return siteerrors.New(siteerrors.ErrCodeConfigInvalid, "collection.name is required", nil)
	}
	if len(c.Collection.Fields) == 0 {
		return siteerrors.New(siteerrors.ErrCodeConfigInvalid, "collection.fields must declare at least one field", nil)
	}
	if _, err := c.Collection.Schema(); err != nil {
		return err
	}
	if c.Server.Timeout != "" {
		if _, err := time.ParseDuration(c.Server.Timeout); err != nil {
			return siteerrors.Wrap(siteerrors.ErrCodeConfigInvalid, err)
		}
	}
	return nil
}
