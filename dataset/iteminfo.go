package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rushteam/recdata/core"
)

// ItemInfo 是物品侧表：归一化物品 ID → 描述字段（标题、作者、流派等）。
// 与核心不变量无关，随模型快照透传给推荐/推理侧。
type ItemInfo map[int64]map[string]string

// FindResult 是一次物品查找的命中结果。
type FindResult struct {
	ID     int64
	Fields map[string]string
}

func (r *FindResult) String() string {
	parts := make([]string, 0, len(r.Fields))
	for k, v := range r.Fields {
		parts = append(parts, k+"="+v)
	}
	return fmt.Sprintf("item %d (%s)", r.ID, strings.Join(parts, ", "))
}

// Finder 在物品侧表中按描述字段做大小写不敏感的子串查找，
// 用于推荐命令里把用户输入的名字解析成物品 ID。
type Finder struct {
	info   ItemInfo
	fields []string // 参与匹配的字段名；为空时匹配所有字段
}

func NewFinder(info ItemInfo, fields []string) *Finder {
	return &Finder{info: info, fields: fields}
}

// Find 返回第一个命中 query 的物品，未命中返回 NOT_FOUND。
func (f *Finder) Find(query string) (*FindResult, error) {
	q := strings.ToLower(query)
	for id, fields := range f.info {
		if f.match(fields, q) {
			return &FindResult{ID: id, Fields: fields}, nil
		}
	}
	return nil, core.NewDomainError(core.ModuleDataset,
		core.ErrorCodeNotFound, fmt.Sprintf("finder: no item matches %q", query))
}

func (f *Finder) match(fields map[string]string, q string) bool {
	if len(f.fields) == 0 {
		for _, v := range fields {
			if strings.Contains(strings.ToLower(v), q) {
				return true
			}
		}
		return false
	}
	for _, name := range f.fields {
		if v, ok := fields[name]; ok && strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// PublishItemInfo 把物品侧表批量写入存储（key 形如 "item:42"，value 为
// JSON 字段表），供线上服务按 ID 查询物品元数据。
func PublishItemInfo(ctx context.Context, st core.Store, info ItemInfo) error {
	kvs := make(map[string][]byte, len(info))
	for id, fields := range info {
		data, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("marshal item %d: %w", id, err)
		}
		kvs["item:"+strconv.FormatInt(id, 10)] = data
	}
	if err := st.BatchSet(ctx, kvs); err != nil {
		return fmt.Errorf("publish item info: %w", err)
	}
	return nil
}

// FetchItemInfo 按 ID 从存储读回物品元数据，key 不存在返回 NOT_FOUND。
func FetchItemInfo(ctx context.Context, st core.Store, id int64) (map[string]string, error) {
	data, err := st.Get(ctx, "item:"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal item %d: %w", id, err)
	}
	return fields, nil
}
