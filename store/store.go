// Package store 提供 core.KeyValueStore 的实现（内存 / Redis），
// 以及构建在 KV 之上的文档仓储 Repository。
//
// 接口定义在 core 包：
//
//	var kv core.KeyValueStore = store.NewMemoryStore()
//	var repo core.Repository = store.NewRepository(kv)
package store

import (
	"context"

	"github.com/rushteam/swiperec/core"
)

// ErrNotFound 是 core.ErrStoreNotFound 的别名，便于包内使用。
var ErrNotFound = core.ErrStoreNotFound

// Backend 是存储后端类型。
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)

// Options 是打开 KV 存储所需的参数。
type Options struct {
	Backend  Backend
	Addr     string
	Password string
	DB       int
}

// Open 按后端类型创建 KV 存储。
func Open(ctx context.Context, opts Options) (core.KeyValueStore, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(ctx, opts.Addr, opts.Password, opts.DB)
	default:
		return nil, core.InvalidInputf(core.ModuleStore, "unknown store backend %q", opts.Backend)
	}
}
