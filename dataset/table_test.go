package dataset

import (
	"reflect"
	"testing"

	"github.com/rushteam/recdata/core"
)

func mustTable(t *testing.T, rows [][]int64) *Table {
	t.Helper()
	table, err := New(rows)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return table
}

func TestNew_Shape(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]int64
		wantErr bool
		want    [][]int64 // expected flat rows after construction
	}{
		{
			name: "two columns get label filled with ones",
			rows: [][]int64{{1, 10}, {2, 20}},
			want: [][]int64{{1, 10, 1}, {2, 20, 1}},
		},
		{
			name: "three columns keep label",
			rows: [][]int64{{1, 10, 0}, {2, 20, 5}},
			want: [][]int64{{1, 10, 0}, {2, 20, 5}},
		},
		{
			name: "context columns survive round trip",
			rows: [][]int64{{1, 10, 7, -3, 1}},
			want: [][]int64{{1, 10, 7, -3, 1}},
		},
		{
			name:    "empty input",
			rows:    nil,
			wantErr: true,
		},
		{
			name:    "single column",
			rows:    [][]int64{{1}},
			wantErr: true,
		},
		{
			name:    "ragged rows",
			rows:    [][]int64{{1, 10, 1}, {2, 20}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := New(tt.rows)
			if tt.wantErr {
				if err == nil {
					t.Fatal("New() expected error, got nil")
				}
				if !core.IsInvalidShape(err) {
					t.Errorf("New() error = %v, want INVALID_SHAPE", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := table.Rows(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Rows() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeIDs_Example(t *testing.T) {
	// (user, item, label) with sparse raw ids
	table := mustTable(t, [][]int64{
		{0, 0, 1},
		{0, 1, 1},
		{1, 0, 1},
	})

	mapping, err := table.NormalizeIDs(nil, true)
	if err != nil {
		t.Fatalf("NormalizeIDs() error = %v", err)
	}

	if want := []int64{2, 4}; !reflect.DeepEqual(table.IDRange(), want) {
		t.Errorf("IDRange() = %v, want %v", table.IDRange(), want)
	}
	want := [][]int64{
		{0, 2, 1},
		{0, 3, 1},
		{1, 2, 1},
	}
	if got := table.Rows(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() = %v, want %v", got, want)
	}
	if len(mapping) != 2 {
		t.Fatalf("mapping columns = %d, want 2", len(mapping))
	}
}

func TestNormalizeIDs_ThreeItems(t *testing.T) {
	table := mustTable(t, [][]int64{
		{0, 5, 1},
		{0, 9, 1},
		{1, 7, 1},
	})

	if _, err := table.NormalizeIDs(nil, true); err != nil {
		t.Fatalf("NormalizeIDs() error = %v", err)
	}

	// 2 users at [0,2), 3 items at [2,5)
	if want := []int64{2, 5}; !reflect.DeepEqual(table.IDRange(), want) {
		t.Errorf("IDRange() = %v, want %v", table.IDRange(), want)
	}
}

func TestNormalizeIDs_RangesDisjoint(t *testing.T) {
	table := mustTable(t, [][]int64{
		{100, 100, 100, 1},
		{200, 300, 100, 1},
		{100, 300, 400, 1},
	})

	if _, err := table.NormalizeIDs(nil, true); err != nil {
		t.Fatalf("NormalizeIDs() error = %v", err)
	}

	idrange := table.IDRange()
	table.ForEach(func(i int, it *core.Interaction) {
		var lo int64
		for col := 0; col < it.EntityCount(); col++ {
			hi := idrange[col]
			v := it.Entity(col)
			if v < lo || v >= hi {
				t.Errorf("row %d col %d: value %d outside owned range [%d,%d)", i, col, v, lo, hi)
			}
			lo = hi
		}
	})
}

func TestNormalizeDenormalize_RoundTrip(t *testing.T) {
	raw := [][]int64{
		{100, 7, 33, 1},
		{200, 9, 33, 1},
		{100, 9, 55, 0},
	}
	table := mustTable(t, raw)

	mapping, err := table.NormalizeIDs(nil, false)
	if err != nil {
		t.Fatalf("NormalizeIDs() error = %v", err)
	}
	if err := table.DenormalizeIDs(mapping, false); err != nil {
		t.Fatalf("DenormalizeIDs() error = %v", err)
	}

	if got := table.Rows(); !reflect.DeepEqual(got, raw) {
		t.Errorf("round trip = %v, want %v", got, raw)
	}
	if table.IDRange() != nil {
		t.Errorf("IDRange() = %v after denormalize, want nil", table.IDRange())
	}
}

func TestNormalizeIDs_ExplicitMapping(t *testing.T) {
	table := mustTable(t, [][]int64{
		{100, 7, 1},
		{200, 8, 1}, // item 8 is unknown to the mapping
		{300, 7, 1}, // user 300 is unknown to the mapping
	})

	mapping := [][]int64{
		{100, 200},
		{7},
	}
	if _, err := table.NormalizeIDs(mapping, true); err != nil {
		t.Fatalf("NormalizeIDs() error = %v", err)
	}

	// rows with unmapped user or item are dropped
	want := [][]int64{{0, 2, 1}}
	if got := table.Rows(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() = %v, want %v", got, want)
	}
}

func TestNormalizeIDs_ContextMissingKeepsRow(t *testing.T) {
	// missing ids in a context column must not drop the row,
	// only user and item columns gate removal
	table := mustTable(t, [][]int64{
		{1, 10, 7, 1},
		{2, 20, 9, 1},
	})

	mapping := [][]int64{
		{1, 2},
		{10, 20},
		{7}, // context value 9 unmapped
	}
	if _, err := table.NormalizeIDs(mapping, true); err != nil {
		t.Fatalf("NormalizeIDs() error = %v", err)
	}

	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (context miss must not drop rows)", table.Len())
	}
	if got := table.Row(1)[2]; got != MissingID {
		t.Errorf("unmapped context value = %d, want %d", got, MissingID)
	}
}

func TestNormalizeIDs_MappingWidthMismatch(t *testing.T) {
	table := mustTable(t, [][]int64{{1, 10, 1}})
	if _, err := table.NormalizeIDs([][]int64{{1}}, true); err == nil {
		t.Fatal("NormalizeIDs() expected error for mapping width mismatch")
	}
}

func TestCreateAdjacencyMatrix_Symmetric(t *testing.T) {
	table := mustTable(t, [][]int64{
		{0, 10, 1},
		{0, 11, 1},
		{1, 10, 1},
	})

	matrix, err := table.CreateAdjacencyMatrix()
	if err != nil {
		t.Fatalf("CreateAdjacencyMatrix() error = %v", err)
	}

	if want := table.IDRange()[1]; matrix.Size() != want {
		t.Errorf("Size() = %d, want %d", matrix.Size(), want)
	}
	table.ForEach(func(i int, it *core.Interaction) {
		if !matrix.Contains(it.User, it.Item) || !matrix.Contains(it.Item, it.User) {
			t.Errorf("row %d: matrix not symmetric for (%d,%d)", i, it.User, it.Item)
		}
	})
	// context columns must not produce edges
	if matrix.NNZ() != 6 {
		t.Errorf("NNZ() = %d, want 6", matrix.NNZ())
	}
}

func TestRemoveLow(t *testing.T) {
	// normalized table: users {0,1}, items {2,3}
	table := mustTable(t, [][]int64{
		{0, 10, 1},
		{0, 11, 1},
		{1, 10, 1},
	})
	if _, err := table.NormalizeIDs(nil, true); err != nil {
		t.Fatalf("NormalizeIDs() error = %v", err)
	}

	// synthetic matrix: user 0 degree 2, user 1 degree 0 (isolated)
	m := NewMatrix(4)
	m.Set(2, 0, 1)
	m.Set(3, 0, 1)

	removed, err := table.RemoveLowUsers(m, 0)
	if err != nil {
		t.Fatalf("RemoveLowUsers() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	// user 0 rows survive: degree 2 > 0
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}

	// strict > comparison: degree 1 survives lim=0, dies at lim=1
	m2 := NewMatrix(4)
	m2.Set(2, 0, 1)
	removed, err = table.RemoveLowUsers(m2, 1)
	if err != nil {
		t.Fatalf("RemoveLowUsers() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
}

func TestRemoveLow_BothDirections(t *testing.T) {
	table := mustTable(t, [][]int64{
		{0, 10, 1},
		{1, 10, 1},
		{2, 11, 1},
	})
	matrix, err := table.CreateAdjacencyMatrix()
	if err != nil {
		t.Fatalf("CreateAdjacencyMatrix() error = %v", err)
	}

	// item 11 has degree 1, users all have degree 1
	removed, err := table.RemoveLow(matrix, 1)
	if err != nil {
		t.Fatalf("RemoveLow() error = %v", err)
	}
	// users pass lim=1? no: every user degree is 1, not > 1 → all rows dropped
	if removed != 3 || table.Len() != 0 {
		t.Errorf("removed = %d, len = %d; want 3 removed, 0 left", removed, table.Len())
	}
}

func TestExtractTestDataset(t *testing.T) {
	table := mustTable(t, [][]int64{
		{0, 10, 1}, // user 0: two positives → last one moves to test
		{0, 11, 1},
		{1, 10, 1}, // user 1: single positive → untouched
		{2, 10, 1}, // user 2: positive + negative → only positives count
		{2, 11, 0},
	})

	testset, err := table.ExtractTestDataset(1, 1)
	if err != nil {
		t.Fatalf("ExtractTestDataset() error = %v", err)
	}

	if testset.Len() != 1 {
		t.Fatalf("testset.Len() = %d, want 1", testset.Len())
	}
	// the later of user 0's positives, normalized: user 0, item 11→4
	got := testset.Row(0)
	if got[0] != 0 || got[2] != 1 {
		t.Errorf("testset row = %v, want user 0 positive", got)
	}
	if table.Len() != 4 {
		t.Errorf("trainset.Len() = %d, want 4", table.Len())
	}
	if !reflect.DeepEqual(testset.IDRange(), table.IDRange()) {
		t.Errorf("testset idrange %v != trainset idrange %v", testset.IDRange(), table.IDRange())
	}
}

func TestExtractTestDataset_MinKeep(t *testing.T) {
	table := mustTable(t, [][]int64{
		{0, 10, 1},
		{0, 11, 1},
		{0, 12, 1},
	})

	testset, err := table.ExtractTestDataset(2, 1)
	if err != nil {
		t.Fatalf("ExtractTestDataset() error = %v", err)
	}
	if testset.Len() != 2 || table.Len() != 1 {
		t.Errorf("test/train = %d/%d, want 2/1", testset.Len(), table.Len())
	}
}

func TestPairCounts(t *testing.T) {
	table := mustTable(t, [][]int64{
		{0, 10, 1},
		{0, 10, 1},
		{0, 11, 1},
	})
	want := []int64{2, 2, 1}
	if got := table.PairCounts(); !reflect.DeepEqual(got, want) {
		t.Errorf("PairCounts() = %v, want %v", got, want)
	}
}

func TestAddPreviousItemColumn(t *testing.T) {
	table := mustTable(t, [][]int64{
		{0, 10, 1},
		{0, 11, 1},
		{1, 11, 1},
	})
	if err := table.AddPreviousItemColumn(); err == nil {
		t.Fatal("AddPreviousItemColumn() expected error on raw table")
	}

	if _, err := table.NormalizeIDs(nil, true); err != nil {
		t.Fatalf("NormalizeIDs() error = %v", err)
	}
	// users [0,2), items [2,4)
	if err := table.AddPreviousItemColumn(); err != nil {
		t.Fatalf("AddPreviousItemColumn() error = %v", err)
	}

	// new column owns [4,6): shifted copy of the item space
	if want := []int64{2, 4, 6}; !reflect.DeepEqual(table.IDRange(), want) {
		t.Fatalf("IDRange() = %v, want %v", table.IDRange(), want)
	}
	want := [][]int64{
		{0, 2, 4, 1}, // first interaction: previous = own item (2 → 4)
		{0, 3, 4, 1}, // previous = item 2 → 4
		{1, 3, 5, 1}, // first interaction of user 1: own item 3 → 5
	}
	if got := table.Rows(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() = %v, want %v", got, want)
	}
}
