package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"

	"github.com/kochabx/apiclient/app"
	"github.com/kochabx/apiclient/config"
	"github.com/kochabx/apiclient/core/credential"
	apihttp "github.com/kochabx/apiclient/core/net/http"
	"github.com/kochabx/apiclient/log"
	"github.com/kochabx/apiclient/log/desensitize"
	"github.com/kochabx/apiclient/log/writer"
	"github.com/kochabx/apiclient/store"
	"github.com/kochabx/apiclient/store/bolt"
	"github.com/kochabx/apiclient/store/etcd"
	"github.com/kochabx/apiclient/store/redis"
)

// session is everything one command invocation needs
type session struct {
	cfg      *config.App
	logger   *log.Logger
	app      *app.Application
	kv       store.KV
	tokens   credential.Provider
	registry *prometheus.Registry
	client   *apihttp.Client
}

// mode selects how strict session setup is
type mode int

const (
	// modeAPI requires api.base_url. An unreachable store means no token.
	modeAPI mode = iota
	// modeToken does not need the API but fails when the store cannot be opened.
	modeToken
)

// run sets up a session and executes fn under a signal-aware context.
// Resources opened during setup are released even when setup fails.
func (o *options) run(ctx context.Context, m mode, fn func(ctx context.Context, s *session) error) error {
	s := &session{logger: log.Nop()}
	s.app = app.New(app.WithContext(ctx), app.WithLogger(s.logger))

	err := o.open(ctx, m, s)
	return s.app.Run(func(ctx context.Context) error {
		if err != nil {
			return err
		}
		return fn(ctx, s)
	})
}

func (o *options) open(ctx context.Context, m mode, s *session) error {
	cfg, err := o.loadConfig(m)
	if err != nil {
		return err
	}
	s.cfg = cfg

	logger, err := o.newLogger(cfg)
	if err != nil {
		return err
	}
	s.logger = logger
	log.SetGlobalLogger(logger)
	_ = s.app.RegisterCloser("logger", logger)

	s.tokens, err = o.openCredentials(ctx, cfg, s)
	if err != nil {
		if m == modeToken {
			return err
		}
		logger.Warn().Err(err).Str("backend", cfg.Credential.Backend).Msg("credential store unavailable, sending requests without a token")
		s.tokens = credential.None
	}

	var metrics *apihttp.Metrics
	if cfg.Metrics.Enabled {
		s.registry = prometheus.NewRegistry()
		metrics = apihttp.NewMetrics(s.registry)
		_ = s.app.RegisterClose("metrics", func(context.Context) error {
			return dumpMetrics(o.stderr, s.registry)
		}, 0)
	}

	if m == modeAPI {
		s.client = apihttp.New(cfg.API.BaseURL,
			apihttp.WithCredentials(s.tokens),
			apihttp.WithMetrics(metrics),
			apihttp.WithLogger(logger),
		)
	}
	return nil
}

func (o *options) loadConfig(m mode) (*config.App, error) {
	opts := []config.Option{config.WithViper(o.viper)}
	if o.configFile != "" {
		opts = append(opts, config.WithFile(filepath.Base(o.configFile), filepath.Dir(o.configFile)))
	}
	if m == modeToken {
		// token management works without an API address
		opts = append(opts, config.WithValidator(nil))
	}
	return config.LoadApp(opts...)
}

func (o *options) newLogger(cfg *config.App) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if o.verbose {
		level = zerolog.DebugLevel
	}

	opts := []log.Option{
		log.WithLevel(level),
		log.WithDesensitize(desensitize.NewHook(desensitize.BuiltinRules()...)),
	}
	if cfg.Log.File {
		return log.NewMulti(cfg.Log.Rotate, opts...)
	}
	return log.NewWriter(writer.Console(o.stderr), opts...), nil
}

// openCredentials opens the configured backend. Store backed sessions keep
// the store in s.kv so token commands can write to it.
func (o *options) openCredentials(ctx context.Context, cfg *config.App, s *session) (credential.Provider, error) {
	c := cfg.Credential
	switch c.Backend {
	case config.BackendStatic:
		return credential.Static(c.Token), nil
	case config.BackendEnv:
		return credential.Env(c.Env), nil
	}

	kv, err := openStore(ctx, cfg, s.logger)
	if err != nil {
		return nil, err
	}
	s.kv = kv
	_ = s.app.RegisterCloser(c.Backend, kv)
	return credential.FromStore(kv, credential.WithKey(c.Key), credential.WithLogger(s.logger)), nil
}

func openStore(ctx context.Context, cfg *config.App, logger *log.Logger) (store.KV, error) {
	switch cfg.Credential.Backend {
	case config.BackendBolt:
		return bolt.Open(bolt.Config{Path: cfg.Bolt.Path, Bucket: cfg.Bolt.Bucket}, bolt.WithLogger(logger))
	case config.BackendRedis:
		opts := []redis.Option{redis.WithLogger(logger)}
		if cfg.Redis.Tracing {
			opts = append(opts, redis.WithTracing())
		}
		return redis.New(ctx, &redis.Config{
			Addrs:    cfg.Redis.Addrs,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		}, opts...)
	case config.BackendEtcd:
		return etcd.New(ctx, &etcd.Config{
			Endpoints: cfg.Etcd.Endpoints,
			Username:  cfg.Etcd.Username,
			Password:  cfg.Etcd.Password,
			Prefix:    cfg.Etcd.Prefix,
		})
	}
	return nil, fmt.Errorf("unknown credential backend %q", cfg.Credential.Backend)
}

// writable returns the store behind the session or an error for read-only backends
func (s *session) writable() (store.KV, error) {
	if s.kv == nil {
		return nil, fmt.Errorf("credential backend %q is read-only", s.cfg.Credential.Backend)
	}
	return s.kv, nil
}

func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
