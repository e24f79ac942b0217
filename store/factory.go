package store

import (
	"fmt"

	"github.com/rushteam/recdata/core"
)

// 存储后端类型常量。
const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
)

// New 按类型创建存储后端，未知类型返回 INVALID_INPUT。
// addr 和 db 只对 redis 生效。
func New(storeType, addr string, db int) (core.Store, error) {
	switch storeType {
	case TypeMemory, "":
		return NewMemoryStore(), nil
	case TypeRedis:
		return NewRedisStore(addr, db)
	default:
		return nil, core.NewDomainError(core.ModuleStore,
			core.ErrorCodeInvalidInput, fmt.Sprintf("unknown store type %q", storeType))
	}
}
