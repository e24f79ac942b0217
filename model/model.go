package model

import (
	"fmt"

	"github.com/rushteam/recdata/core"
	"github.com/rushteam/recdata/dataset"
)

// Model 是打分模型的最小抽象：输入归一化后的交互行 batch，输出每行一个
// 可比较的分数。行形态与 dataset.Table.Rows 一致
// (user, item, context..., label)，label 列不参与打分。
type Model interface {
	Name() string
	Forward(rows [][]int64) []float64
}

// 支持的模型类型。
const (
	TypeFMLinear = "fm-linear"
	TypeFMGCN    = "fm-gcn"
	TypeFMGCNAtt = "fm-gcn-att"
)

// Create 按类型构建模型。
//
// fm-linear 只需要字段宽度（取矩阵边长，即归一化 ID 空间大小）；
// 图变体消费完整的邻接矩阵构建图嵌入。未知类型返回 INVALID_INPUT。
func Create(modelType string, matrix *dataset.Matrix, hp *core.HyperParameters) (Model, error) {
	switch modelType {
	case TypeFMGCNAtt:
		return NewGraphAttentionFactorizationMachine(hp.EmbedDim, matrix,
			hp.GraphAttentionHeads, hp.GraphAttentionDropout), nil
	case TypeFMGCN:
		return NewGraphFactorizationMachine(hp.EmbedDim, matrix), nil
	case TypeFMLinear, "":
		return NewFactorizationMachine(matrix.Size(), hp.EmbedDim), nil
	default:
		return nil, core.NewDomainError(core.ModuleModel,
			core.ErrorCodeInvalidInput, fmt.Sprintf("could not create model: unknown type %q", modelType))
	}
}
