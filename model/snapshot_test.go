package model

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rushteam/recdata/core"
	"github.com/rushteam/recdata/dataset"
)

type stubSource struct {
	trainset *dataset.Table
	itemInfo dataset.ItemInfo
}

func (s *stubSource) Load(context.Context, *core.HyperParameters) error { return nil }
func (s *stubSource) Trainset() *dataset.Table                          { return s.trainset }
func (s *stubSource) Testset() *dataset.Table                           { return nil }
func (s *stubSource) Matrix() *dataset.Matrix                           { return nil }
func (s *stubSource) ItemInfo() dataset.ItemInfo                        { return s.itemInfo }

func TestSnapshot_SaveLoadDecode(t *testing.T) {
	table, matrix := testMatrix(t)
	src := &stubSource{
		trainset: table,
		itemInfo: dataset.ItemInfo{2: {"title": "First"}},
	}

	for _, typ := range []string{TypeFMLinear, TypeFMGCN, TypeFMGCNAtt} {
		t.Run(typ, func(t *testing.T) {
			m, err := Create(typ, matrix, core.NewHyperParameters())
			if err != nil {
				t.Fatalf("Create(%q) error = %v", typ, err)
			}

			path := filepath.Join(t.TempDir(), "model.json")
			if err := Save(path, m, src); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			snap, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if snap.ModelType != typ {
				t.Errorf("ModelType = %q, want %q", snap.ModelType, typ)
			}
			if !reflect.DeepEqual(snap.IDRange, table.IDRange()) {
				t.Errorf("IDRange = %v, want %v", snap.IDRange, table.IDRange())
			}
			if snap.ItemInfo[2]["title"] != "First" {
				t.Errorf("ItemInfo = %v", snap.ItemInfo)
			}

			decoded, err := snap.Decode()
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if decoded.Name() != typ {
				t.Errorf("Decode().Name() = %q, want %q", decoded.Name(), typ)
			}

			// 反序列化出的模型与原模型打分一致
			rows := table.Rows()
			want := m.Forward(rows)
			got := decoded.Forward(rows)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("decoded scores = %v, want %v", got, want)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "absent.json")); err == nil {
		t.Error("Load(absent) expected error")
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(corrupt); err == nil {
		t.Error("Load(corrupt) expected error")
	}

	// 缺 idrange 的快照同样拒绝加载
	partial := filepath.Join(dir, "partial.json")
	if err := os.WriteFile(partial, []byte(`{"model_type":"fm-linear","model":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(partial); err == nil {
		t.Error("Load(partial) expected error for missing idrange")
	}
}

func TestSnapshot_DecodeUnknownType(t *testing.T) {
	snap := &Snapshot{ModelType: "bogus", ModelData: []byte("{}"), IDRange: []int64{1}}
	if _, err := snap.Decode(); err == nil {
		t.Fatal("Decode() expected error for unknown type")
	}
}
