package dataset

import (
	"fmt"
	"slices"
	"sort"

	"github.com/rushteam/recdata/core"
)

// MissingID 是归一化/反归一化时查不到映射的哨兵值。
// 查不到不是错误：由调用方决定是丢弃（removeMissing）还是保留待查。
const MissingID int64 = -1

// Table 是交互数据的核心容器：一张有序的数值表，
// 每行为 (user, item, context..., label)。
//
// 两种状态：
//   - 原始态：实体列是任意整数标识，idrange 为空
//   - 归一化态：每个实体列的值被映射为稠密连续整数，且各列占据
//     互不重叠的半开区间 [idrange[i-1], idrange[i])，第 0 列从 0 开始
//
// 关键不变量：归一化后所有实体 ID 互不冲突，因此一个组合邻接矩阵
// 即可表示跨列类型的共现关系。
//
// Table 不支持并发修改：所有操作串行执行，归一化、负采样、过滤
// 均为原地修改。
type Table struct {
	interactions []core.Interaction
	idrange      []int64 // 每个实体列归一化区间的累计上界；nil 表示原始态
}

// New 从扁平数值行构建 Table。
//
// 输入必须是规整的二维表且至少 2 列；只有 (user, item) 两列时自动
// 补一列全 1 的 label。不满足形状要求时整体构建失败（INVALID_SHAPE），
// 不做部分构建。
func New(rows [][]int64) (*Table, error) {
	if len(rows) == 0 {
		return nil, core.NewDomainError(core.ModuleDataset,
			core.ErrorCodeInvalidShape, "interaction table: empty input")
	}
	width := len(rows[0])
	if width < 2 {
		return nil, core.NewDomainError(core.ModuleDataset,
			core.ErrorCodeInvalidShape,
			fmt.Sprintf("interaction table: need at least 2 columns, got %d", width))
	}

	interactions := make([]core.Interaction, 0, len(rows))
	for i, row := range rows {
		if len(row) != width {
			return nil, core.NewDomainError(core.ModuleDataset,
				core.ErrorCodeInvalidShape,
				fmt.Sprintf("interaction table: ragged row %d: got %d columns, want %d", i, len(row), width))
		}
		if width == 2 {
			interactions = append(interactions, core.Interaction{
				User: row[0], Item: row[1], Label: 1,
			})
			continue
		}
		interactions = append(interactions, core.InteractionFromRow(row))
	}
	return &Table{interactions: interactions}, nil
}

// newFromInteractions 包内构造：从已有记录和 idrange 直接组表（如测试集切分）。
func newFromInteractions(interactions []core.Interaction, idrange []int64) *Table {
	return &Table{interactions: interactions, idrange: idrange}
}

// Len 返回行数。
func (t *Table) Len() int {
	return len(t.interactions)
}

// Get 返回第 i 行记录的副本。
func (t *Table) Get(i int) core.Interaction {
	return t.interactions[i].Clone()
}

// Row 返回第 i 行的扁平编码 (user, item, context..., label)。
func (t *Table) Row(i int) []int64 {
	return t.interactions[i].Row()
}

// Rows 返回整张表的扁平编码（模型训练 batch 的输入形态）。
func (t *Table) Rows() [][]int64 {
	rows := make([][]int64, len(t.interactions))
	for i := range t.interactions {
		rows[i] = t.interactions[i].Row()
	}
	return rows
}

// ForEach 按行序遍历，回调可原地修改记录。
func (t *Table) ForEach(fn func(i int, it *core.Interaction)) {
	for i := range t.interactions {
		fn(i, &t.interactions[i])
	}
}

// IDRange 返回各实体列归一化区间的累计上界；原始态返回 nil。
func (t *Table) IDRange() []int64 {
	return t.idrange
}

// Normalized 报告表是否处于归一化态。
func (t *Table) Normalized() bool {
	return t.idrange != nil
}

// entityCols 返回实体列数量（不含 label）。
func (t *Table) entityCols() int {
	if len(t.interactions) == 0 {
		return 0
	}
	return t.interactions[0].EntityCount()
}

// NormalizeIDs 把每个实体列的原始标识映射为稠密连续整数。
//
// mapping 为 nil 时按列推导：每列的唯一值升序排序，值的序号即归一化 ID，
// 再加上前面各列的累计宽度作为偏移；推导是确定性的（同样的输入得到
// 同样的映射）。mapping 非空时按给定映射查找，查不到的值记为 MissingID。
//
// removeMissing 为 true 时丢弃 user 或 item 列为 MissingID 的行；
// 上下文列缺失不触发删行——上下文实体确实可能缺席，不影响交互本身成立。
//
// 返回实际使用的映射，供之后 DenormalizeIDs 还原。
func (t *Table) NormalizeIDs(mapping [][]int64, removeMissing bool) ([][]int64, error) {
	cols := t.entityCols()
	if mapping == nil {
		mapping = make([][]int64, cols)
		for col := 0; col < cols; col++ {
			seen := make(map[int64]struct{}, len(t.interactions))
			for i := range t.interactions {
				seen[t.interactions[i].Entity(col)] = struct{}{}
			}
			ids := make([]int64, 0, len(seen))
			for v := range seen {
				ids = append(ids, v)
			}
			sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
			mapping[col] = ids
		}
	} else if len(mapping) != cols {
		return nil, core.NewDomainError(core.ModuleDataset,
			core.ErrorCodeInvalidInput,
			fmt.Sprintf("normalize: mapping has %d columns, table has %d entity columns", len(mapping), cols))
	}

	var diff int64
	t.idrange = make([]int64, cols)
	for col, colmap := range mapping {
		for i := range t.interactions {
			v := t.interactions[i].Entity(col)
			idx, ok := slices.BinarySearch(colmap, v)
			if !ok {
				t.interactions[i].SetEntity(col, MissingID)
				continue
			}
			t.interactions[i].SetEntity(col, int64(idx)+diff)
		}
		diff += int64(len(colmap))
		t.idrange[col] = diff
	}

	if removeMissing {
		t.removeMissingRows()
	}
	return mapping, nil
}

// DenormalizeIDs 是 NormalizeIDs 的逆操作：按位置回查映射，把归一化 ID
// 还原为原始标识，越界的记为 MissingID。之后表回到原始态（idrange 清空）。
func (t *Table) DenormalizeIDs(mapping [][]int64, removeMissing bool) error {
	cols := t.entityCols()
	if len(mapping) != cols {
		return core.NewDomainError(core.ModuleDataset,
			core.ErrorCodeInvalidInput,
			fmt.Sprintf("denormalize: mapping has %d columns, table has %d entity columns", len(mapping), cols))
	}

	var diff int64
	for col, colmap := range mapping {
		for i := range t.interactions {
			idx := t.interactions[i].Entity(col) - diff
			if idx < 0 || idx >= int64(len(colmap)) {
				t.interactions[i].SetEntity(col, MissingID)
				continue
			}
			t.interactions[i].SetEntity(col, colmap[idx])
		}
		diff += int64(len(colmap))
	}

	if removeMissing {
		t.removeMissingRows()
	}
	t.idrange = nil
	return nil
}

// removeMissingRows 丢弃 user 或 item 为 MissingID 的行。
// 只看前两列：上下文列缺失不算无效交互。
func (t *Table) removeMissingRows() {
	kept := t.interactions[:0]
	for i := range t.interactions {
		if t.interactions[i].User < 0 || t.interactions[i].Item < 0 {
			continue
		}
		kept = append(kept, t.interactions[i])
	}
	t.interactions = kept
}

// CreateAdjacencyMatrix 构建对称共现矩阵，边长为 idrange 末位。
// 只有 (user, item) 对写入矩阵；上下文列参与 ID 空间但不产生边。
// 表处于原始态时先做归一化。
func (t *Table) CreateAdjacencyMatrix() (*Matrix, error) {
	if t.idrange == nil {
		if _, err := t.NormalizeIDs(nil, true); err != nil {
			return nil, err
		}
	}
	size := t.idrange[len(t.idrange)-1]
	m := NewMatrix(size)
	for i := range t.interactions {
		user, item := t.interactions[i].User, t.interactions[i].Item
		m.Set(user, item, 1)
		m.Set(item, user, 1)
	}
	return m, nil
}

// removeLowDegree 只保留第 col 实体列度数严格大于 lim 的行，返回删掉的行数。
func (t *Table) removeLowDegree(m *Matrix, lim int64, col int) (int, error) {
	if t.idrange == nil {
		if _, err := t.NormalizeIDs(nil, true); err != nil {
			return 0, err
		}
	}
	counts := m.Degrees()
	removed := 0
	kept := t.interactions[:0]
	for i := range t.interactions {
		v := t.interactions[i].Entity(col)
		if v >= 0 && v < int64(len(counts)) && counts[v] > lim {
			kept = append(kept, t.interactions[i])
			continue
		}
		removed++
	}
	t.interactions = kept
	return removed, nil
}

// RemoveLowUsers 删除用户度数不超过 lim 的行，返回删掉的行数。
func (t *Table) RemoveLowUsers(m *Matrix, lim int64) (int, error) {
	return t.removeLowDegree(m, lim, 0)
}

// RemoveLowItems 删除物品度数不超过 lim 的行，返回删掉的行数。
func (t *Table) RemoveLowItems(m *Matrix, lim int64) (int, error) {
	return t.removeLowDegree(m, lim, 1)
}

// RemoveLow 先后对用户、物品两个方向各做一次低度数过滤（相互独立，
// 不迭代到不动点），返回两次删除的行数之和。
func (t *Table) RemoveLow(m *Matrix, lim int64) (int, error) {
	cu, err := t.RemoveLowUsers(m, lim)
	if err != nil {
		return cu, err
	}
	ci, err := t.RemoveLowItems(m, lim)
	return cu + ci, err
}

// ExtractTestDataset 按用户切分测试集：正样本数量达到
// numUserInteractions+minKeep 的用户，其按行序最后 numUserInteractions 条
// 正样本移入新表；不足阈值的用户整体留在原表。行序如承载时间语义，
// 切出的即该用户最近的交互（留一法切分）。
//
// 新表与原表共享同一 idrange；表处于原始态时先做归一化。
func (t *Table) ExtractTestDataset(numUserInteractions, minKeep int) (*Table, error) {
	if t.idrange == nil {
		if _, err := t.NormalizeIDs(nil, true); err != nil {
			return nil, err
		}
	}

	// 按首次出现顺序收集每个用户的正样本行号
	order := make([]int64, 0)
	byUser := make(map[int64][]int)
	for i := range t.interactions {
		if t.interactions[i].Label <= 0 {
			continue
		}
		u := t.interactions[i].User
		if _, ok := byUser[u]; !ok {
			order = append(order, u)
		}
		byUser[u] = append(byUser[u], i)
	}

	moved := make(map[int]struct{})
	extracted := make([]core.Interaction, 0)
	for _, u := range order {
		userRows := byUser[u]
		if len(userRows) < numUserInteractions+minKeep {
			continue
		}
		for _, i := range userRows[len(userRows)-numUserInteractions:] {
			moved[i] = struct{}{}
			extracted = append(extracted, t.interactions[i])
		}
	}

	kept := t.interactions[:0]
	for i := range t.interactions {
		if _, ok := moved[i]; ok {
			continue
		}
		kept = append(kept, t.interactions[i])
	}
	t.interactions = kept

	return newFromInteractions(extracted, t.idrange), nil
}

// PairCounts 返回每一行的 (user, item) 对在整张表中出现的次数。
func (t *Table) PairCounts() []int64 {
	type pair struct{ u, i int64 }
	counts := make(map[pair]int64, len(t.interactions))
	for i := range t.interactions {
		counts[pair{t.interactions[i].User, t.interactions[i].Item}]++
	}
	out := make([]int64, len(t.interactions))
	for i := range t.interactions {
		out[i] = counts[pair{t.interactions[i].User, t.interactions[i].Item}]
	}
	return out
}

// AddPreviousItemColumn 追加"上一个物品"上下文列：同一用户按行序的前一条
// 交互的物品 ID；用户的第一条交互取其自身物品。
//
// 要求表已归一化。新列是物品空间的一份平移副本，占据自己的
// [idrange[last], idrange[last]+itemWidth) 区间，保持各列区间不重叠的
// 不变量。
func (t *Table) AddPreviousItemColumn() error {
	if t.idrange == nil {
		return core.NewDomainError(core.ModuleDataset,
			core.ErrorCodeInvalidInput, "previous item column requires a normalized table")
	}
	itemLo := t.idrange[0]
	itemWidth := t.idrange[1] - t.idrange[0]
	offset := t.idrange[len(t.idrange)-1] - itemLo

	prev := make(map[int64]int64, 64)
	for i := range t.interactions {
		it := &t.interactions[i]
		p, ok := prev[it.User]
		if !ok {
			p = it.Item
		}
		it.Context = append(it.Context, p+offset)
		prev[it.User] = it.Item
	}
	t.idrange = append(t.idrange, t.idrange[len(t.idrange)-1]+itemWidth)
	return nil
}
