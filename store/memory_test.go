package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/recdata/core"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	defer st.Close()

	if st.Name() != "memory" {
		t.Errorf("Name() = %q, want memory", st.Name())
	}

	if err := st.Set(ctx, "k1", []byte("v1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := st.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "v1" {
		t.Errorf("Get(k1) = %q, want v1", got)
	}

	if _, err := st.Get(ctx, "missing"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrStoreNotFound", err)
	}

	if err := st.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := st.Get(ctx, "k1"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrStoreNotFound", err)
	}
}

func TestNew(t *testing.T) {
	st, err := New(TypeMemory, "", 0)
	if err != nil {
		t.Fatalf("New(memory) error = %v", err)
	}
	defer st.Close()
	if st.Name() != "memory" {
		t.Errorf("Name() = %q, want memory", st.Name())
	}

	if _, err := New("bogus", "", 0); err == nil {
		t.Fatal("New(bogus) expected error")
	}
}

func TestMemoryStore_Batch(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	defer st.Close()

	kvs := map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}
	if err := st.BatchSet(ctx, kvs); err != nil {
		t.Fatalf("BatchSet() error = %v", err)
	}

	got, err := st.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BatchGet() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("BatchGet() returned %d entries, want 2", len(got))
	}
	if string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet() = %v", got)
	}
}
