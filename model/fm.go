package model

import (
	"math"
	"math/rand"
)

// FactorizationMachine 实现了因子分解机 (Factorization Machine, FM)。
//
// 预测原理：
//  1. 一阶项: z1 = Bias + sum(Linear[id_i])
//  2. 二阶交互项: z2 = 0.5 * sum_d((sum_i v_i,d)^2 - sum_i v_i,d^2)
//
// 输入是一行中的实体 ID 集合（user、item、上下文），每个 ID 在
// 统一的归一化空间内索引同一张嵌入表——这正是 ID 区间不重叠
// 不变量的消费方。
type FactorizationMachine struct {
	FieldDim int64       `json:"field_dim"`
	EmbedDim int         `json:"embed_dim"`
	Bias     float64     `json:"bias"`
	Linear   []float64   `json:"linear"`
	Vectors  [][]float64 `json:"vectors"` // 每个实体 ID 一个嵌入向量
}

// NewFactorizationMachine 创建 FM，嵌入用 xavier-uniform 初始化。
func NewFactorizationMachine(fieldDim int64, embedDim int) *FactorizationMachine {
	m := &FactorizationMachine{
		FieldDim: fieldDim,
		EmbedDim: embedDim,
		Linear:   make([]float64, fieldDim),
		Vectors:  make([][]float64, fieldDim),
	}
	bound := math.Sqrt(6.0 / float64(int64(embedDim)+fieldDim))
	for i := range m.Vectors {
		v := make([]float64, embedDim)
		for d := range v {
			v[d] = (rand.Float64()*2 - 1) * bound
		}
		m.Vectors[i] = v
	}
	return m
}

func (m *FactorizationMachine) Name() string { return TypeFMLinear }

// Forward 对 batch 中每行打分，行末位的 label 列被忽略。
func (m *FactorizationMachine) Forward(rows [][]int64) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = m.score(row[:len(row)-1], m.Vectors)
	}
	return out
}

// score 计算一行实体 ID 的 FM 分数，embedding 参数允许图变体替换嵌入来源。
func (m *FactorizationMachine) score(ids []int64, embedding [][]float64) float64 {
	z := m.Bias
	for _, id := range ids {
		if id >= 0 && id < int64(len(m.Linear)) {
			z += m.Linear[id]
		}
	}

	for d := 0; d < m.EmbedDim; d++ {
		var sum, sumSq float64
		for _, id := range ids {
			if id < 0 || id >= int64(len(embedding)) {
				continue
			}
			v := embedding[id][d]
			sum += v
			sumSq += v * v
		}
		z += 0.5 * (sum*sum - sumSq)
	}
	return z
}
