package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/apiclient/core/validator"
)

// Validator checks the decoded target
type Validator interface {
	Struct(s any) error
}

// Config manages application configuration
type Config struct {
	mu       sync.RWMutex
	viper    *viper.Viper
	validate Validator
	target   any
	loader   Loader
	name     string
	paths    []string
	envFiles []string
	defaults map[string]any
}

// New creates a new Config instance with the given options.
// If no loader is provided, a FileLoader is created reading an optional
// "config.yaml" from "." with environment overrides.
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: validator.New(validator.WithFieldNameTags("mapstructure")),
		target:   target,
		name:     "config.yaml",
		paths:    []string{"."},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil {
		c.loader = NewFileLoader(c.name, c.paths, c.viper,
			WithEnvFiles(c.envFiles...),
			WithDefaults(c.defaults),
			WithValidation(c.validate),
		)
	}

	return c
}

// Load reads the configuration using the configured loader
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loader.Load(c.target)
}

// GetViper returns the underlying viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.viper
}
