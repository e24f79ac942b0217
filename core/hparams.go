package core

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/recdata/pkg/conv"
	"github.com/rushteam/recdata/pkg/dsl"
)

// HyperParameters 是数据准备与模型构建共用的超参数容器（支持 YAML/JSON）。
//
// 上下文列开关支持两种形式：
//   - interaction_contexts: 名称列表，包含即启用
//   - interaction_context_expr: CEL 表达式，变量 name 为上下文名称，
//     例如 `name == "skip" || name == "previous"`
//
// 两者同时配置时表达式优先。
type HyperParameters struct {
	// MaxInteractions 限制从原始数据读取的最大交互行数，-1 表示不限制。
	MaxInteractions int64 `yaml:"max_interactions" json:"max_interactions"`

	InteractionContexts    []string `yaml:"interaction_contexts" json:"interaction_contexts"`
	InteractionContextExpr string   `yaml:"interaction_context_expr" json:"interaction_context_expr"`

	// NegativesTrain / NegativesTest 是训练集 / 测试集每条正样本对应的负采样数量。
	NegativesTrain int `yaml:"negatives_train" json:"negatives_train"`
	NegativesTest  int `yaml:"negatives_test" json:"negatives_test"`

	// SamplingAttempts 是负采样单条样本的最大重试次数，超出则报 SAMPLING_EXHAUSTED。
	SamplingAttempts int `yaml:"sampling_attempts" json:"sampling_attempts"`

	// 模型侧超参数（透传给 model.Create）。
	EmbedDim              int     `yaml:"embed_dim" json:"embed_dim"`
	GraphAttentionHeads   int     `yaml:"graph_attention_heads" json:"graph_attention_heads"`
	GraphAttentionDropout float64 `yaml:"graph_attention_dropout" json:"graph_attention_dropout"`

	gate *dsl.ContextGate
}

// NewHyperParameters 返回带默认值的超参数。
func NewHyperParameters() *HyperParameters {
	return &HyperParameters{
		MaxInteractions:       -1,
		NegativesTrain:        4,
		NegativesTest:         99,
		SamplingAttempts:      1000,
		EmbedDim:              64,
		GraphAttentionHeads:   8,
		GraphAttentionDropout: 0.6,
	}
}

// ShouldHaveInteractionContext 判断名为 name 的上下文列是否应该加载。
// 表达式编译失败时视为不加载（首次调用时编译并缓存）。
func (hp *HyperParameters) ShouldHaveInteractionContext(name string) bool {
	if hp.InteractionContextExpr != "" {
		if hp.gate == nil {
			gate, err := dsl.NewContextGate(hp.InteractionContextExpr)
			if err != nil {
				return false
			}
			hp.gate = gate
		}
		ok, err := hp.gate.Evaluate(name)
		return err == nil && ok
	}
	for _, n := range hp.InteractionContexts {
		if n == name {
			return true
		}
	}
	return false
}

// ApplyOverrides 以 map 形式覆盖部分超参数（如命令行 -p key=value 解析结果）。
// 未出现的 key 保持原值；类型不符的 value 被忽略。
func (hp *HyperParameters) ApplyOverrides(m map[string]any) {
	hp.MaxInteractions = conv.ConfigGetInt64(m, "max_interactions", hp.MaxInteractions)
	hp.NegativesTrain = int(conv.ConfigGetInt64(m, "negatives_train", int64(hp.NegativesTrain)))
	hp.NegativesTest = int(conv.ConfigGetInt64(m, "negatives_test", int64(hp.NegativesTest)))
	hp.SamplingAttempts = int(conv.ConfigGetInt64(m, "sampling_attempts", int64(hp.SamplingAttempts)))
	hp.EmbedDim = int(conv.ConfigGetInt64(m, "embed_dim", int64(hp.EmbedDim)))
	hp.GraphAttentionHeads = int(conv.ConfigGetInt64(m, "graph_attention_heads", int64(hp.GraphAttentionHeads)))
	if v, ok := conv.ToFloat64(m["graph_attention_dropout"]); ok {
		hp.GraphAttentionDropout = v
	}
	if ctxs := conv.SliceAnyToString(m["interaction_contexts"]); ctxs != nil {
		hp.InteractionContexts = ctxs
	}
	if expr := conv.ConfigGet[string](m, "interaction_context_expr", ""); expr != "" {
		hp.InteractionContextExpr = expr
		hp.gate = nil
	}
}

// LoadHyperParametersFromYAML 从 YAML 文件加载超参数，未出现的字段保持默认值。
func LoadHyperParametersFromYAML(path string) (*HyperParameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	hp := NewHyperParameters()
	if err := yaml.Unmarshal(data, hp); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return hp, nil
}

// LoadHyperParametersFromJSON 从 JSON 文件加载超参数，未出现的字段保持默认值。
func LoadHyperParametersFromJSON(path string) (*HyperParameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	hp := NewHyperParameters()
	if err := json.Unmarshal(data, hp); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return hp, nil
}
