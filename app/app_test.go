package app

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/kochabx/apiclient/log"
)

func TestNew_Simple(t *testing.T) {
	app := New()

	info := app.Info()
	if info.Started {
		t.Fatal("expected application not to be started")
	}
	if info.CloseCount != 0 {
		t.Fatalf("expected 0 close functions, got %d", info.CloseCount)
	}
}

func TestRun_ReturnsFnError(t *testing.T) {
	want := errors.New("boom")
	app := New(WithLogger(log.Nop()))

	err := app.Run(func(ctx context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if !app.Info().Started {
		t.Fatal("expected application to be started")
	}
}

func TestRun_Twice(t *testing.T) {
	app := New(WithLogger(log.Nop()))
	if err := app.Run(func(context.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := app.Run(func(context.Context) error { return nil }); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestRun_CloseFuncsRunAfterFn(t *testing.T) {
	var finished, closed atomic.Bool
	app := New(
		WithLogger(log.Nop()),
		WithCloseTimeout(time.Second),
		WithSignals(os.Interrupt, syscall.SIGTERM),
	)
	if err := app.RegisterClose("store", func(ctx context.Context) error {
		if !finished.Load() {
			t.Error("close function ran before fn returned")
		}
		closed.Store(true)
		return nil
	}, 0); err != nil {
		t.Fatal(err)
	}
	if err := app.RegisterClose("nil", nil, 0); err == nil {
		t.Fatal("expected error registering nil close function")
	}

	err := app.Run(func(ctx context.Context) error {
		finished.Store(true)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !closed.Load() {
		t.Fatal("close function was not called")
	}
}

type closer struct{ calls atomic.Int32 }

func (c *closer) Close() error {
	c.calls.Add(1)
	return nil
}

func TestRegisterCloser(t *testing.T) {
	c := &closer{}
	app := New(WithLogger(log.Nop()))
	if err := app.RegisterCloser("logger", c); err != nil {
		t.Fatal(err)
	}
	if err := app.Run(func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if got := c.calls.Load(); got != 1 {
		t.Fatalf("expected 1 Close call, got %d", got)
	}
}

func TestRun_CloseFuncPanicAndTimeout(t *testing.T) {
	app := New(WithLogger(log.Nop()))
	_ = app.RegisterClose("panic", func(context.Context) error { panic("bad") }, time.Second)
	_ = app.RegisterClose("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		return nil
	}, 20*time.Millisecond)

	start := time.Now()
	if err := app.Run(func(context.Context) error { return nil }); err != nil {
		t.Fatalf("close failures must not change the result, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("close timeout not applied")
	}
}

func TestStop_CancelsRun(t *testing.T) {
	app := New(WithLogger(log.Nop()))
	go func() {
		time.Sleep(20 * time.Millisecond)
		app.Stop()
	}()

	err := app.Run(func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return errors.New("not cancelled")
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWithContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	app := New(WithContext(ctx), WithLogger(log.Nop()))
	err := app.Run(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if app.Context().Err() == nil {
		t.Fatal("expected application context to be done")
	}
}
