// Package app runs one unit of work under a signal-aware context and releases
// registered resources afterwards.
package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kochabx/apiclient/log"
)

var (
	ErrAlreadyStarted = errors.New("application already started")
	ErrClosePanic     = errors.New("close function panicked")
)

// Application 管理一次运行及其关闭函数的生命周期
type Application struct {
	ctx          context.Context
	cancel       context.CancelFunc
	signals      []os.Signal
	closeFuncs   []CloseFunc
	closeTimeout time.Duration
	logger       *log.Logger
	mu           sync.RWMutex
	started      bool
}

// CloseFunc 具有可选超时的关闭函数
type CloseFunc struct {
	Name    string
	Fn      func(context.Context) error
	Timeout time.Duration
}

type Option func(*Application)

// WithContext 设置应用的根上下文
func WithContext(ctx context.Context) Option {
	return func(app *Application) {
		if ctx != nil {
			app.ctx, app.cancel = context.WithCancel(ctx)
		}
	}
}

// WithCloseTimeout 设置关闭函数的默认超时时间
func WithCloseTimeout(timeout time.Duration) Option {
	return func(app *Application) {
		if timeout > 0 {
			app.closeTimeout = timeout
		}
	}
}

// WithSignals 设置取消运行的信号
func WithSignals(signals ...os.Signal) Option {
	return func(app *Application) {
		if len(signals) > 0 {
			app.signals = append([]os.Signal(nil), signals...)
		}
	}
}

// WithLogger 设置日志记录器，默认 log.G
func WithLogger(l *log.Logger) Option {
	return func(app *Application) {
		if l != nil {
			app.logger = l
		}
	}
}

// New 使用给定选项创建新的应用实例
func New(options ...Option) *Application {
	app := &Application{
		closeTimeout: 5 * time.Second,
		signals:      []os.Signal{os.Interrupt, syscall.SIGTERM},
		logger:       log.G,
	}
	app.ctx, app.cancel = context.WithCancel(context.Background())

	for _, opt := range options {
		opt(app)
	}
	return app
}

// Context 返回运行上下文，收到信号或 Stop 后取消
func (app *Application) Context() context.Context {
	return app.ctx
}

// RegisterClose 添加运行结束后执行的关闭函数
func (app *Application) RegisterClose(name string, fn func(context.Context) error, timeout time.Duration) error {
	if fn == nil {
		return errors.New("close function cannot be nil")
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if timeout == 0 {
		timeout = app.closeTimeout
	}
	app.closeFuncs = append(app.closeFuncs, CloseFunc{Name: name, Fn: fn, Timeout: timeout})
	return nil
}

// RegisterCloser 将 io.Closer 风格的资源注册为关闭函数
func (app *Application) RegisterCloser(name string, closer interface{ Close() error }) error {
	if closer == nil {
		return errors.New("closer cannot be nil")
	}
	return app.RegisterClose(name, func(context.Context) error { return closer.Close() }, 0)
}

// Run 执行 fn 直到其返回或收到信号，然后运行所有关闭函数。返回 fn 的错误。
func (app *Application) Run(fn func(ctx context.Context) error) error {
	app.mu.Lock()
	if app.started {
		app.mu.Unlock()
		return ErrAlreadyStarted
	}
	app.started = true
	signals := append([]os.Signal(nil), app.signals...)
	app.mu.Unlock()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	defer signal.Stop(sigCh)

	eg, egCtx := errgroup.WithContext(app.ctx)
	done := make(chan struct{})

	eg.Go(func() error {
		defer close(done)
		return fn(egCtx)
	})

	eg.Go(func() error {
		select {
		case sig := <-sigCh:
			app.logger.Info().Str("signal", sig.String()).Msg("received signal, cancelling")
			app.cancel()
		case <-done:
		}
		return nil
	})

	err := eg.Wait()
	app.runCloseTasks()
	app.cancel()
	return err
}

// Stop 取消正在进行的运行
func (app *Application) Stop() {
	app.cancel()
}

// runCloseTasks 并发执行所有关闭函数
func (app *Application) runCloseTasks() {
	app.mu.RLock()
	closeFuncs := append([]CloseFunc(nil), app.closeFuncs...)
	app.mu.RUnlock()

	if len(closeFuncs) == 0 {
		return
	}

	eg := &errgroup.Group{}
	for _, c := range closeFuncs {
		eg.Go(func() error {
			return app.runCloseTask(c)
		})
	}

	if err := eg.Wait(); err != nil {
		app.logger.Error().Err(err).Msg("some close functions failed")
	}
}

// runCloseTask 执行单个带超时的关闭函数
func (app *Application) runCloseTask(c CloseFunc) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				app.logger.Error().Interface("panic", r).Str("close", c.Name).Msg("close function panicked")
				done <- ErrClosePanic
			}
		}()
		done <- c.Fn(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			app.logger.Error().Err(err).Str("close", c.Name).Msg("close function failed")
		}
		return err
	case <-ctx.Done():
		app.logger.Warn().Str("close", c.Name).Msg("close function timed out")
		return ctx.Err()
	}
}

// Info 返回应用状态信息
func (app *Application) Info() ApplicationInfo {
	app.mu.RLock()
	defer app.mu.RUnlock()

	return ApplicationInfo{
		Started:    app.started,
		CloseCount: len(app.closeFuncs),
	}
}

// ApplicationInfo 提供应用状态信息
type ApplicationInfo struct {
	Started    bool `json:"started"`
	CloseCount int  `json:"close_count"`
}
