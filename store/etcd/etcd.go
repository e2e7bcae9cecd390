package etcd

import (
	"context"
	"errors"
	"fmt"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/kochabx/apiclient/store"
)

var _ store.KV = (*Etcd)(nil)

var (
	ErrEtcdNotInitialized = errors.New("etcd client not initialized")
	ErrConnectionFailed   = errors.New("failed to connect to etcd")
)

// Etcd ETCD 键值存储
type Etcd struct {
	client *clientv3.Client
	config *Config
}

// New 创建新的 Etcd 实例并检查连通性
func New(ctx context.Context, config *Config) (*Etcd, error) {
	if config == nil {
		config = &Config{}
	}
	config.setDefaults()

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   config.Endpoints,
		Username:    config.Username,
		Password:    config.Password,
		DialTimeout: config.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	e := &Etcd{client: client, config: config}
	if err := e.Ping(ctx); err != nil {
		_ = e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Etcd) key(k string) string {
	return e.config.Prefix + k
}

// Ping 测试etcd连接是否正常
func (e *Etcd) Ping(ctx context.Context) error {
	if e.client == nil {
		return ErrEtcdNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := e.client.Status(ctx, e.config.Endpoints[0])
	return err
}

// Get 读取 key，不存在时返回 store.ErrNotFound
func (e *Etcd) Get(ctx context.Context, key string) (string, error) {
	if e.client == nil {
		return "", ErrEtcdNotInitialized
	}

	resp, err := e.client.Get(ctx, e.key(key))
	if err != nil {
		return "", err
	}
	if len(resp.Kvs) == 0 {
		return "", store.ErrNotFound
	}
	return string(resp.Kvs[0].Value), nil
}

// Set 写入 key
func (e *Etcd) Set(ctx context.Context, key, value string) error {
	if e.client == nil {
		return ErrEtcdNotInitialized
	}
	_, err := e.client.Put(ctx, e.key(key), value)
	return err
}

// Delete 删除 key
func (e *Etcd) Delete(ctx context.Context, key string) error {
	if e.client == nil {
		return ErrEtcdNotInitialized
	}
	_, err := e.client.Delete(ctx, e.key(key))
	return err
}

// GetClient 获取原始的etcd客户端
func (e *Etcd) GetClient() *clientv3.Client {
	return e.client
}

// Close 关闭etcd连接
func (e *Etcd) Close() error {
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}
