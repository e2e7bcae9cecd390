package config

import (
	"github.com/spf13/viper"
)

// Option is a function that configures a Config
type Option func(*Config)

// WithViper sets a custom viper instance
func WithViper(v *viper.Viper) Option {
	return func(c *Config) {
		c.viper = v
	}
}

// WithValidator sets a custom validator, nil disables validation
func WithValidator(v Validator) Option {
	return func(c *Config) {
		c.validate = v
	}
}

// WithLoader sets the configuration loader
func WithLoader(loader Loader) Option {
	return func(c *Config) {
		c.loader = loader
	}
}

// WithFile sets the config file name and search paths for the default loader
func WithFile(name string, paths ...string) Option {
	return func(c *Config) {
		c.name = name
		if len(paths) > 0 {
			c.paths = paths
		}
	}
}

// WithDotEnv loads the given .env files into the process environment before reading config
func WithDotEnv(files ...string) Option {
	return func(c *Config) {
		c.envFiles = append(c.envFiles, files...)
	}
}

// WithDefaultValues registers default values keyed by dotted config path
func WithDefaultValues(defaults map[string]any) Option {
	return func(c *Config) {
		c.defaults = defaults
	}
}
