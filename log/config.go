package log

import (
	"time"

	"github.com/kochabx/apiclient/log/writer"
)

// FileConfig 日志文件配置
type FileConfig struct {
	Filepath         string            `json:"filepath" mapstructure:"filepath"`
	Filename         string            `json:"filename" mapstructure:"filename"`
	FileExt          string            `json:"file_ext" mapstructure:"file_ext"`
	RotateMode       writer.RotateMode `json:"rotate_mode" mapstructure:"rotate_mode"`
	RotatelogsConfig RotatelogsConfig  `json:"rotatelogs_config" mapstructure:"rotatelogs_config"`
	LumberjackConfig LumberjackConfig  `json:"lumberjack_config" mapstructure:"lumberjack_config"`
}

// RotatelogsConfig 按时间轮转配置（小时）
type RotatelogsConfig struct {
	MaxAge       int `json:"max_age" mapstructure:"max_age"`
	RotationTime int `json:"rotation_time" mapstructure:"rotation_time"`
}

// LumberjackConfig 按大小轮转配置
type LumberjackConfig struct {
	MaxSize    int  `json:"max_size" mapstructure:"max_size"`
	MaxBackups int  `json:"max_backups" mapstructure:"max_backups"`
	MaxAge     int  `json:"max_age" mapstructure:"max_age"`
	Compress   bool `json:"compress" mapstructure:"compress"`
}

// setDefaults 填充零值字段
func (c *FileConfig) setDefaults() {
	if c.Filepath == "" {
		c.Filepath = "log"
	}
	if c.Filename == "" {
		c.Filename = "apiclient"
	}
	if c.FileExt == "" {
		c.FileExt = "log"
	}
	if c.RotatelogsConfig.MaxAge == 0 {
		c.RotatelogsConfig.MaxAge = 24
	}
	if c.RotatelogsConfig.RotationTime == 0 {
		c.RotatelogsConfig.RotationTime = 1
	}
	if c.LumberjackConfig.MaxSize == 0 {
		c.LumberjackConfig.MaxSize = 100
	}
	if c.LumberjackConfig.MaxBackups == 0 {
		c.LumberjackConfig.MaxBackups = 5
	}
	if c.LumberjackConfig.MaxAge == 0 {
		c.LumberjackConfig.MaxAge = 30
	}
}

func (c *FileConfig) toWriterConfig() writer.RotateConfig {
	return writer.RotateConfig{
		Mode:       c.RotateMode,
		Dir:        c.Filepath,
		Name:       c.Filename,
		Ext:        c.FileExt,
		Interval:   time.Duration(c.RotatelogsConfig.RotationTime) * time.Hour,
		Retention:  time.Duration(c.RotatelogsConfig.MaxAge) * time.Hour,
		MaxSizeMB:  c.LumberjackConfig.MaxSize,
		MaxBackups: c.LumberjackConfig.MaxBackups,
		MaxAgeDays: c.LumberjackConfig.MaxAge,
		Compress:   c.LumberjackConfig.Compress,
	}
}
