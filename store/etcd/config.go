package etcd

import "time"

// Config ETCD 配置
type Config struct {
	Endpoints   []string      `json:"endpoints"`
	Username    string        `json:"username"`
	Password    string        `json:"password"`
	DialTimeout time.Duration `json:"dialTimeout"`
	// Prefix 拼接在所有 key 之前
	Prefix string `json:"prefix"`
}

// setDefaults 填充零值字段
func (c *Config) setDefaults() {
	if len(c.Endpoints) == 0 {
		c.Endpoints = []string{"localhost:2379"}
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
}
