// Package store 提供本機鍵值儲存（memory / redis / sqlite）
package store

import (
	"context"
	"fmt"

	"recipe-extractor/internal/infrastructure/config"
)

// Store 鍵值儲存介面；值為 JSON 字串
type Store interface {
	// Get 取得值；不存在時 ok 為 false
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open 依設定建立儲存後端
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(cfg.Store.Redis)
	case "sqlite":
		return NewSQLiteStore(cfg.Store.SQLite.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
