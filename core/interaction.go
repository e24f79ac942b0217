package core

// Interaction 是一条用户-物品交互记录，是整个数据层的统一承载结构。
//
// 对外边界（CSV 行、模型 batch）使用扁平的按位置编码：
//
//	(user, item, context..., label)
//
// 内部则使用具名字段，避免裸数组按下标取列带来的隐蔽错误。
// Label 语义：1 = 正样本，0 = 负样本（负采样生成），带符号值表示质量编码。
type Interaction struct {
	User    int64
	Item    int64
	Context []int64 // 上下文实体列（如 skip 编码、上一个物品），可为空
	Label   int64
}

// EntityCount 返回实体列数量（user + item + context，不含 label）。
func (it *Interaction) EntityCount() int {
	return 2 + len(it.Context)
}

// Entity 按列下标读取实体值：0 = user，1 = item，2+i = context[i]。
func (it *Interaction) Entity(col int) int64 {
	switch col {
	case 0:
		return it.User
	case 1:
		return it.Item
	default:
		return it.Context[col-2]
	}
}

// SetEntity 按列下标写入实体值，与 Entity 对应。
func (it *Interaction) SetEntity(col int, v int64) {
	switch col {
	case 0:
		it.User = v
	case 1:
		it.Item = v
	default:
		it.Context[col-2] = v
	}
}

// Row 转换为扁平的按位置编码行 (user, item, context..., label)。
func (it *Interaction) Row() []int64 {
	row := make([]int64, 0, it.EntityCount()+1)
	row = append(row, it.User, it.Item)
	row = append(row, it.Context...)
	return append(row, it.Label)
}

// Clone 深拷贝一条交互记录（Context 独立复制）。
func (it *Interaction) Clone() Interaction {
	c := *it
	if it.Context != nil {
		c.Context = make([]int64, len(it.Context))
		copy(c.Context, it.Context)
	}
	return c
}

// InteractionFromRow 从扁平行构建 Interaction。
// 行至少包含 (user, item, label) 三列，多余列视为上下文。
func InteractionFromRow(row []int64) Interaction {
	it := Interaction{
		User:  row[0],
		Item:  row[1],
		Label: row[len(row)-1],
	}
	if n := len(row) - 3; n > 0 {
		it.Context = make([]int64, n)
		copy(it.Context, row[2:len(row)-1])
	}
	return it
}
