package config

import (
	"fmt"
	"strings"

	"github.com/kochabx/apiclient/log"
)

// Credential backends
const (
	BackendStatic = "static"
	BackendEnv    = "env"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
	BackendEtcd   = "etcd"
)

// App is the configuration of the apiclient command and of programs embedding the client.
type App struct {
	API        API        `mapstructure:"api"`
	Credential Credential `mapstructure:"credential"`
	Bolt       Bolt       `mapstructure:"bolt"`
	Redis      Redis      `mapstructure:"redis"`
	Etcd       Etcd       `mapstructure:"etcd"`
	Log        Log        `mapstructure:"log"`
	Metrics    Metrics    `mapstructure:"metrics"`
}

// API holds the backend address. BaseURL is prefixed verbatim to every endpoint.
type API struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

// Credential selects where the bearer token is read from
type Credential struct {
	Backend string `mapstructure:"backend" validate:"oneof=static env bolt redis etcd"`
	Key     string `mapstructure:"key" validate:"required"`
	Env     string `mapstructure:"env"`
	Token   string `mapstructure:"token"`
}

// Bolt is the local file-backed store
type Bolt struct {
	Path   string `mapstructure:"path"`
	Bucket string `mapstructure:"bucket"`
}

// Redis is a shared token store
type Redis struct {
	Addrs    []string `mapstructure:"addrs"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	DB       int      `mapstructure:"db"`
	Prefix   string   `mapstructure:"prefix"`
	Tracing  bool     `mapstructure:"tracing"`
}

// Etcd is a distributed token store
type Etcd struct {
	Endpoints []string `mapstructure:"endpoints"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Prefix    string   `mapstructure:"prefix"`
}

// Log configures the process logger
type Log struct {
	Level string         `mapstructure:"level"`
	File  bool           `mapstructure:"file"`
	Rotate log.FileConfig `mapstructure:"rotate"`
}

// Metrics toggles request metrics
type Metrics struct {
	Enabled bool `mapstructure:"enabled"`
}

// AppDefaults returns the default value of every key in App.
func AppDefaults() map[string]any {
	return map[string]any{
		"api.base_url":       "",
		"credential.backend": BackendBolt,
		"credential.key":     "token",
		"credential.env":     "API_TOKEN",
		"credential.token":   "",
		"bolt.path":          "apiclient.db",
		"bolt.bucket":        "storage",
		"redis.addrs":        []string{},
		"redis.username":     "",
		"redis.password":     "",
		"redis.db":           0,
		"redis.prefix":       "",
		"redis.tracing":      false,
		"etcd.endpoints":     []string{},
		"etcd.username":      "",
		"etcd.password":      "",
		"etcd.prefix":        "",
		"log.level":          "info",
		"log.file":           false,
		"metrics.enabled":    false,
	}
}

// Check performs the cross-field validation struct tags cannot express.
func (a *App) Check() error {
	switch a.Credential.Backend {
	case BackendRedis:
		if len(a.Redis.Addrs) == 0 {
			return fmt.Errorf("credential backend %q requires redis.addrs", BackendRedis)
		}
	case BackendEtcd:
		if len(a.Etcd.Endpoints) == 0 {
			return fmt.Errorf("credential backend %q requires etcd.endpoints", BackendEtcd)
		}
	case BackendBolt:
		if strings.TrimSpace(a.Bolt.Path) == "" {
			return fmt.Errorf("credential backend %q requires bolt.path", BackendBolt)
		}
	case BackendEnv:
		if strings.TrimSpace(a.Credential.Env) == "" {
			return fmt.Errorf("credential backend %q requires credential.env", BackendEnv)
		}
	case BackendStatic:
	default:
		return fmt.Errorf("unknown credential backend %q", a.Credential.Backend)
	}
	if _, err := log.ParseLevel(a.Log.Level); err != nil {
		return err
	}
	return nil
}

// LoadApp loads App from config.yaml (optional), .env (optional) and the environment.
// API_BASE_URL, CREDENTIAL_BACKEND etc. override file values.
func LoadApp(opts ...Option) (*App, error) {
	app := new(App)
	opts = append([]Option{WithDefaultValues(AppDefaults()), WithDotEnv(".env")}, opts...)
	if err := New(app, opts...).Load(); err != nil {
		return nil, err
	}
	if err := app.Check(); err != nil {
		return nil, err
	}
	return app, nil
}
