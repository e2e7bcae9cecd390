package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/kochabx/apiclient/log/desensitize"
	"github.com/kochabx/apiclient/log/writer"
)

// Logger 日志记录器
type Logger struct {
	zerolog.Logger
	desensitizeHook *desensitize.Hook
	closer          io.Closer
}

// GetDesensitizeHook 获取脱敏钩子
func (l *Logger) GetDesensitizeHook() *desensitize.Hook {
	return l.desensitizeHook
}

// Close 关闭日志记录器，释放资源
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// ParseLevel 解析日志级别字符串，空字符串视为 info
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// newLogger 统一的 Logger 构建方法
func newLogger(w io.Writer, opts ...Option) *Logger {
	logger := &Logger{}
	for _, opt := range opts {
		opt(logger)
	}

	// 脱敏必须在所有输出之前完成
	if logger.desensitizeHook != nil {
		w = desensitize.NewWriter(w, logger.desensitizeHook)
	}

	logger.Logger = zerolog.New(w).With().Timestamp().Logger()
	for _, opt := range opts {
		opt(logger)
	}
	return logger
}

// New 创建新的 Logger 实例，输出到标准错误，标准输出留给命令结果
func New(opts ...Option) *Logger {
	return newLogger(writer.Console(os.Stderr), opts...)
}

// NewWriter 创建输出到任意 writer 的 JSON Logger
func NewWriter(w io.Writer, opts ...Option) *Logger {
	return newLogger(w, opts...)
}

// Nop 返回丢弃所有输出的 Logger
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// NewFile 创建文件输出的 Logger，Close 关闭文件
func NewFile(c FileConfig, opts ...Option) (*Logger, error) {
	c.setDefaults()

	w, err := writer.File(c.toWriterConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create file writer: %w", err)
	}

	logger := newLogger(w, opts...)
	logger.closer = w
	return logger, nil
}

// NewMulti 创建同时输出到文件和标准错误的 Logger
func NewMulti(c FileConfig, opts ...Option) (*Logger, error) {
	c.setDefaults()

	fw, err := writer.File(c.toWriterConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create file writer: %w", err)
	}

	logger := newLogger(zerolog.MultiLevelWriter(fw, writer.Console(os.Stderr)), opts...)
	logger.closer = fw
	return logger, nil
}
