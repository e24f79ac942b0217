package dataset

import (
	"fmt"

	"github.com/rushteam/recdata/core"
)

// IDGenerator 按首次出现顺序给任意原始标识分配稠密连续的整数编号。
// 原始标识可以是字符串（如 session id）或整数，由类型参数决定。
type IDGenerator[K comparable] struct {
	index map[K]int64
	ids   []K
}

func NewIDGenerator[K comparable]() *IDGenerator[K] {
	return &IDGenerator[K]{
		index: make(map[K]int64),
	}
}

// Add 注册一个原始标识。重复注册是幂等的，不改变已有编号。
func (g *IDGenerator[K]) Add(id K) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = int64(len(g.ids))
	g.ids = append(g.ids, id)
}

// Find 返回原始标识对应的稠密编号，未注册时返回 NOT_FOUND 错误。
func (g *IDGenerator[K]) Find(id K) (int64, error) {
	v, ok := g.index[id]
	if !ok {
		return 0, core.NewDomainError(core.ModuleDataset,
			core.ErrorCodeNotFound, fmt.Sprintf("id generator: unknown id %v", id))
	}
	return v, nil
}

// Len 返回已注册的标识数量。
func (g *IDGenerator[K]) Len() int {
	return len(g.ids)
}

// IDs 返回按编号顺序排列的原始标识（只读视图，调用方不应修改）。
func (g *IDGenerator[K]) IDs() []K {
	return g.ids
}
