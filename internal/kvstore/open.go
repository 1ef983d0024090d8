package kvstore

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFS     = "fs"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config selects and configures a backend.
type Config struct {
	Backend    string
	FSDir      string
	Redis      RedisConfig
	SQLitePath string
}

// Open builds the configured store. An empty backend means memory.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFS:
		return NewFSStore(cfg.FSDir)
	case BackendRedis:
		return NewRedisStore(ctx, cfg.Redis)
	case BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("kvstore: unknown backend %q", cfg.Backend)
	}
}
