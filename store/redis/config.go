package redis

import (
	"crypto/tls"
	"time"
)

// Config Redis 配置（单机/集群/哨兵由 Addrs 与 MasterName 决定）
type Config struct {
	// Addrs 单机: ["localhost:6379"]；集群: 多个节点；哨兵: 哨兵地址
	Addrs []string

	// MasterName 哨兵模式的主节点名称
	MasterName string

	Username string
	Password string

	// DB 仅在单机和哨兵模式下有效
	DB int

	// Prefix 拼接在所有 key 之前，用于多个应用共享同一实例
	Prefix string

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	TLSConfig *tls.Config
}

// Single 创建单机模式配置
func Single(addr string) *Config {
	return &Config{Addrs: []string{addr}}
}

// setDefaults 填充零值字段
func (c *Config) setDefaults() {
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

// Validate 验证配置是否有效
func (c *Config) Validate() error {
	if len(c.Addrs) == 0 {
		return ErrEmptyAddrs
	}
	if c.DialTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// mode 返回客户端模式
func (c *Config) mode() string {
	switch {
	case c.MasterName != "":
		return "sentinel"
	case len(c.Addrs) > 1:
		return "cluster"
	default:
		return "single"
	}
}
