package redis

import (
	"context"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kochabx/apiclient/log"
)

// DebugHook 记录命令名与耗时。参数中可能包含凭证，因此从不记录 args。
type DebugHook struct {
	logger *log.Logger
}

// NewDebugHook 创建调试 Hook
func NewDebugHook(logger *log.Logger) *DebugHook {
	return &DebugHook{logger: logger}
}

func (h *DebugHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.logger.Warn().Str("addr", addr).Dur("duration", time.Since(start)).Err(err).Msg("redis dial failed")
		}
		return conn, err
	}
}

func (h *DebugHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		event := h.logger.Debug()
		if err != nil && err != redis.Nil {
			event = h.logger.Warn().Err(err)
		}
		event.Str("cmd", cmd.FullName()).Dur("duration", time.Since(start)).Msg("redis command")
		return err
	}
}

func (h *DebugHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		h.logger.Debug().Int("commands", len(cmds)).Dur("duration", time.Since(start)).Err(err).Msg("redis pipeline")
		return err
	}
}
