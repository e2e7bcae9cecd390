package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RotateMode 日志轮转模式
type RotateMode int

const (
	// RotateModeTime 按时间轮转 (file-rotatelogs)
	RotateModeTime RotateMode = iota
	// RotateModeSize 按大小轮转 (lumberjack)
	RotateModeSize
)

func (m RotateMode) String() string {
	switch m {
	case RotateModeTime:
		return "time"
	case RotateModeSize:
		return "size"
	}
	return fmt.Sprintf("RotateMode(%d)", int(m))
}

// UnmarshalText 支持在配置文件中写 "time" / "size"
func (m *RotateMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "time":
		*m = RotateModeTime
	case "size":
		*m = RotateModeSize
	default:
		return fmt.Errorf("unknown rotate mode %q", text)
	}
	return nil
}

// RotateConfig 日志文件位置与轮转参数
type RotateConfig struct {
	Mode RotateMode
	// Dir/Name.Ext 为当前日志文件
	Dir  string
	Name string
	Ext  string

	// 按时间轮转
	Interval  time.Duration
	Retention time.Duration

	// 按大小轮转
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Path 返回当前日志文件路径
func (c RotateConfig) Path() string {
	return filepath.Join(c.Dir, c.Name+"."+c.Ext)
}

// File 创建轮转文件 writer，目录不存在时创建 (0700)
func File(c RotateConfig) (io.WriteCloser, error) {
	if err := os.MkdirAll(c.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	switch c.Mode {
	case RotateModeTime:
		// 带时间戳的文件名，Path() 为指向最新文件的符号链接
		pattern := filepath.Join(c.Dir, c.Name+".%Y%m%d%H%M."+c.Ext)
		w, err := rotatelogs.New(pattern,
			rotatelogs.WithLinkName(c.Path()),
			rotatelogs.WithMaxAge(c.Retention),
			rotatelogs.WithRotationTime(c.Interval),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create time rotate writer: %w", err)
		}
		return w, nil
	case RotateModeSize:
		return &lumberjack.Logger{
			Filename:   c.Path(),
			MaxSize:    c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAgeDays,
			Compress:   c.Compress,
		}, nil
	}
	return nil, fmt.Errorf("unsupported rotate mode: %v", c.Mode)
}
