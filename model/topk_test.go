package model

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rushteam/recdata/store"
)

// 零嵌入 + 手工一阶权重，分数即可预期
func linearOnlyModel(linear []float64) *FactorizationMachine {
	return &FactorizationMachine{
		FieldDim: int64(len(linear)),
		EmbedDim: 0,
		Linear:   linear,
	}
}

func TestTopK(t *testing.T) {
	m := linearOnlyModel([]float64{0, 0, 0.5, 2, 1})
	rows := [][]int64{
		{0, 2, 1},
		{0, 3, 1},
		{0, 4, 1},
	}

	ranked := TopK(m, rows, 2)
	if len(ranked) != 2 {
		t.Fatalf("len(ranked) = %d, want 2", len(ranked))
	}
	if ranked[0].Item != 3 || ranked[1].Item != 4 {
		t.Errorf("ranked items = [%d %d], want [3 4]", ranked[0].Item, ranked[1].Item)
	}
	if ranked[0].Score != 2 {
		t.Errorf("top score = %v, want 2", ranked[0].Score)
	}

	// k 大于候选数时返回全部
	if got := TopK(m, rows, 10); len(got) != 3 {
		t.Errorf("TopK(10) len = %d, want 3", len(got))
	}
}

func TestPublishTopK(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	defer st.Close()

	ranked := []Ranked{{Item: 3, Score: 2}, {Item: 4, Score: 1}}
	if err := PublishTopK(ctx, st, 7, ranked); err != nil {
		t.Fatalf("PublishTopK() error = %v", err)
	}

	data, err := st.Get(ctx, "rec:7")
	if err != nil {
		t.Fatalf("Get(rec:7) error = %v", err)
	}
	var got []Ranked
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[0].Item != 3 {
		t.Errorf("stored topk = %v", got)
	}
}
