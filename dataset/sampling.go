package dataset

import (
	"fmt"
	"math/rand"

	"github.com/rushteam/recdata/core"
)

// Container 是负采样的冲突检查接口：判断两个实体之间是否已存在观测到的
// 关系（通常由邻接矩阵实现）。
type Container interface {
	Contains(a, b int64) bool
}

// DefaultSamplingAttempts 是单条负样本的默认重试预算。
const DefaultSamplingAttempts = 1000

type samplerOptions struct {
	rng         *rand.Rand
	maxAttempts int
}

// SamplerOption 配置负采样行为。
type SamplerOption func(*samplerOptions)

// WithRand 注入随机源，测试中可传入固定种子获得确定性结果。
// 不注入时使用进程级全局随机源。
func WithRand(rng *rand.Rand) SamplerOption {
	return func(o *samplerOptions) { o.rng = rng }
}

// WithMaxAttempts 覆盖单条负样本的重试预算。
func WithMaxAttempts(n int) SamplerOption {
	return func(o *samplerOptions) { o.maxAttempts = n }
}

// AddNegativeSampling 为每条现有交互生成 num 条负样本，紧跟在原行之后
// （调用后行序为 [orig0, neg0_0..neg0_{num-1}, orig1, ...]）。
//
// 负样本保留原行的 user 列，其余每个实体列在其归一化子区间内均匀重抽，
// 且与原行该列的值不同；新行所有实体值的两两组合都不得出现在 container
// 中（不只是 user-item 对）。合成行的 label 为 0。
//
// 某一行在重试预算内找不到合法负样本时返回 SAMPLING_EXHAUSTED，
// 而不是无限重试——container 中可能根本不存在合法负样本。
func (t *Table) AddNegativeSampling(c Container, num int, opts ...SamplerOption) error {
	if num <= 0 {
		return nil
	}
	if t.idrange == nil {
		return core.NewDomainError(core.ModuleDataset,
			core.ErrorCodeInvalidInput, "negative sampling requires a normalized table")
	}

	o := samplerOptions{maxAttempts: DefaultSamplingAttempts}
	for _, opt := range opts {
		opt(&o)
	}
	intn := rand.Int63n
	if o.rng != nil {
		intn = o.rng.Int63n
	}

	out := make([]core.Interaction, 0, len(t.interactions)*(num+1))
	for i := range t.interactions {
		out = append(out, t.interactions[i])
		for k := 0; k < num; k++ {
			neg, err := t.randomNegativeRow(c, &t.interactions[i], intn, o.maxAttempts)
			if err != nil {
				return fmt.Errorf("negative sampling row %d: %w", i, err)
			}
			out = append(out, neg)
		}
	}
	t.interactions = out
	return nil
}

// randomNegativeRow 重抽除 user 外的所有实体列，直到得到一条与 container
// 无冲突的行，或耗尽重试预算。
func (t *Table) randomNegativeRow(c Container, orig *core.Interaction, intn func(int64) int64, maxAttempts int) (core.Interaction, error) {
	cols := orig.EntityCount()
	for attempt := 0; attempt < maxAttempts; attempt++ {
		neg := orig.Clone()
		neg.Label = 0
		ok := true
		for col := 1; col < cols; col++ {
			lo := t.columnLow(col)
			hi := t.idrange[col]
			if hi-lo <= 1 {
				// 区间只有一个取值时不可能与原值不同
				ok = false
				break
			}
			v := orig.Entity(col)
			for v == orig.Entity(col) {
				v = lo + intn(hi-lo)
			}
			neg.SetEntity(col, v)
		}
		if !ok {
			continue
		}
		if t.rowCollides(c, &neg) {
			continue
		}
		return neg, nil
	}
	return core.Interaction{}, core.NewDomainError(core.ModuleDataset,
		core.ErrorCodeSamplingExhausted,
		fmt.Sprintf("no valid negative sample found in %d attempts", maxAttempts))
}

// columnLow 返回第 col 实体列归一化区间的下界。
func (t *Table) columnLow(col int) int64 {
	if col == 0 {
		return 0
	}
	return t.idrange[col-1]
}

// rowCollides 检查行内所有实体值的两两组合是否出现在 container 中。
func (t *Table) rowCollides(c Container, it *core.Interaction) bool {
	cols := it.EntityCount()
	for a := 0; a < cols; a++ {
		for b := a + 1; b < cols; b++ {
			if c.Contains(it.Entity(a), it.Entity(b)) {
				return true
			}
		}
	}
	return false
}
