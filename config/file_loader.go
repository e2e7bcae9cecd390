package config

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	kerrors "github.com/kochabx/apiclient/errors"
)

// FileLoader loads configuration from an optional file, .env files and the environment
type FileLoader struct {
	viper    *viper.Viper
	validate Validator
	name     string
	paths    []string
	envFiles []string
}

// FileLoaderOption configures a FileLoader
type FileLoaderOption func(*FileLoader)

// WithEnvFiles sets the .env files loaded before reading
func WithEnvFiles(files ...string) FileLoaderOption {
	return func(l *FileLoader) {
		l.envFiles = files
	}
}

// WithDefaults registers viper defaults. Every key the target reads from the
// environment must be known to viper, so a default is registered even for empty values.
func WithDefaults(defaults map[string]any) FileLoaderOption {
	return func(l *FileLoader) {
		for k, v := range defaults {
			l.viper.SetDefault(k, v)
		}
	}
}

// WithValidation sets the validator run after unmarshalling
func WithValidation(v Validator) FileLoaderOption {
	return func(l *FileLoader) {
		l.validate = v
	}
}

// decodeHook extends viper's default hooks with encoding.TextUnmarshaler support
var decodeHook = mapstructure.ComposeDecodeHookFunc(
	mapstructure.TextUnmarshallerHookFunc(),
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
)

// NewFileLoader creates a new file loader
func NewFileLoader(name string, paths []string, v *viper.Viper, opts ...FileLoaderOption) *FileLoader {
	extension := path.Ext(name)
	configType := strings.TrimPrefix(extension, ".")

	for _, configPath := range paths {
		v.AddConfigPath(configPath)
	}

	v.SetConfigName(strings.TrimSuffix(name, extension))
	v.SetConfigType(configType)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	l := &FileLoader{
		viper: v,
		paths: paths,
		name:  name,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements Loader interface. A missing config file is not an error:
// defaults and the environment still apply.
func (l *FileLoader) Load(target any) error {
	if err := l.loadEnvFiles(); err != nil {
		return kerrors.New(500, "failed to load env file: %v", err)
	}

	if err := l.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return kerrors.New(500, "config read error: %v", err)
		}
	}

	if err := l.viper.Unmarshal(target, viper.DecodeHook(decodeHook)); err != nil {
		return kerrors.New(500, "config parse error: %v", err)
	}

	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return kerrors.New(400, "config validation failed: %v", err)
		}
	}

	return nil
}

// loadEnvFiles never overrides variables already present in the environment.
func (l *FileLoader) loadEnvFiles() error {
	var existing []string
	for _, f := range l.envFiles {
		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		existing = append(existing, f)
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}
