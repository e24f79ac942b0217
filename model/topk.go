package model

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/rushteam/recdata/core"
)

// Ranked 是一个带分数的候选物品。
type Ranked struct {
	Item  int64   `json:"item"`
	Score float64 `json:"score"`
}

// TopK 对候选行打分并返回分数最高的 k 个物品（降序）。
// 行形态与 Forward 一致，物品取第 1 列。
func TopK(m Model, rows [][]int64, k int) []Ranked {
	scores := m.Forward(rows)
	ranked := make([]Ranked, len(rows))
	for i, row := range rows {
		ranked[i] = Ranked{Item: row[1], Score: scores[i]}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score > ranked[b].Score
	})
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}

// PublishTopK 把一个用户的 TopK 列表写入存储（key 形如 "rec:7"，value 为
// JSON 数组），供线上服务直接读取离线算好的推荐结果。
func PublishTopK(ctx context.Context, st core.Store, user int64, ranked []Ranked) error {
	data, err := json.Marshal(ranked)
	if err != nil {
		return fmt.Errorf("marshal topk for user %d: %w", user, err)
	}
	if err := st.Set(ctx, "rec:"+strconv.FormatInt(user, 10), data); err != nil {
		return fmt.Errorf("publish topk for user %d: %w", user, err)
	}
	return nil
}
