package dataset

// cell 是稀疏矩阵的坐标键 (row, col)。
type cell struct {
	row, col int64
}

// Matrix 是实体共现关系的稀疏方阵（DOK 表示：坐标 → 权重）。
//
// 矩阵覆盖整个归一化 ID 空间（边长 = idrange 末位），因为各实体列的
// ID 子区间互不重叠，一个矩阵即可承载跨列类型的关系。
// 表中每条交互写入 (user, item) 与 (item, user) 两个方向，矩阵对称。
//
// 两个用途：
//   - 负采样的冲突检查（Contains）
//   - 低活跃实体过滤的度数统计（Degrees）
type Matrix struct {
	size  int64
	cells map[cell]float64
}

// NewMatrix 创建边长为 size 的空矩阵。
func NewMatrix(size int64) *Matrix {
	return &Matrix{
		size:  size,
		cells: make(map[cell]float64),
	}
}

// Size 返回矩阵边长。
func (m *Matrix) Size() int64 {
	return m.size
}

// NNZ 返回非零元素个数。
func (m *Matrix) NNZ() int {
	return len(m.cells)
}

// Set 写入单个元素；v 为 0 时删除该元素。
func (m *Matrix) Set(row, col int64, v float64) {
	if v == 0 {
		delete(m.cells, cell{row, col})
		return
	}
	m.cells[cell{row, col}] = v
}

// Get 读取单个元素，未写入的位置返回 0。
func (m *Matrix) Get(row, col int64) float64 {
	return m.cells[cell{row, col}]
}

// Contains 判断 (row, col) 位置是否存在非零元素。
func (m *Matrix) Contains(row, col int64) bool {
	_, ok := m.cells[cell{row, col}]
	return ok
}

// Degrees 返回每列的非零元素个数（列和）。
// 对 0/1 对称矩阵而言即每个实体的度数。
func (m *Matrix) Degrees() []int64 {
	counts := make([]int64, m.size)
	for c := range m.cells {
		counts[c.col]++
	}
	return counts
}
