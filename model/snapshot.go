package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rushteam/recdata/dataset"
)

// Snapshot 是训练产物的持久化记录：模型参数、训练集的 idrange 和物品侧表。
// idrange 必须是保存时训练集的值——推理侧靠它把原始实体标识映射回
// 归一化空间。
type Snapshot struct {
	ModelType string           `json:"model_type"`
	ModelData json.RawMessage  `json:"model"`
	IDRange   []int64          `json:"idrange"`
	ItemInfo  dataset.ItemInfo `json:"item_info"`
}

// Save 把模型与数据源的 idrange、物品侧表写成单个 JSON 记录。
func Save(path string, m Model, src dataset.Source) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	snap := Snapshot{
		ModelType: m.Name(),
		ModelData: data,
		IDRange:   src.Trainset().IDRange(),
		ItemInfo:  src.ItemInfo(),
	}
	out, err := json.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load 读取快照文件。文件缺失、损坏或关键字段缺失都会报错，
// 调用方（如推荐命令）应中止而不是带着残缺快照继续。
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.ModelType == "" || snap.ModelData == nil {
		return nil, fmt.Errorf("snapshot %s: missing model", path)
	}
	if len(snap.IDRange) == 0 {
		return nil, fmt.Errorf("snapshot %s: missing idrange", path)
	}
	return &snap, nil
}

// Decode 按记录的类型反序列化出模型实例。
func (s *Snapshot) Decode() (Model, error) {
	switch s.ModelType {
	case TypeFMLinear:
		var m FactorizationMachine
		if err := json.Unmarshal(s.ModelData, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.ModelType, err)
		}
		return &m, nil
	case TypeFMGCN:
		var m GraphFactorizationMachine
		if err := json.Unmarshal(s.ModelData, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.ModelType, err)
		}
		return &m, nil
	case TypeFMGCNAtt:
		var m GraphAttentionFactorizationMachine
		if err := json.Unmarshal(s.ModelData, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.ModelType, err)
		}
		return &m, nil
	default:
		return nil, fmt.Errorf("decode: unknown model type %q", s.ModelType)
	}
}
