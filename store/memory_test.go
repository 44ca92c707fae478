package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/swiperec/core"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	if _, err := m.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("Get(missing) error = %v, want not found", err)
	}
	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get() = %q, %v", got, err)
	}
	got[0] = 'x'
	if again, _ := m.Get(ctx, "k"); string(again) != "v" {
		t.Errorf("返回值被外部修改影响: %q", again)
	}
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := m.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after Delete error = %v", err)
	}
}

func TestMemoryStore_Batch(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	if err := m.BatchSet(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}); err != nil {
		t.Fatalf("BatchSet() error = %v", err)
	}
	got, err := m.BatchGet(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("BatchGet() error = %v", err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet() = %v", got)
	}
	if _, ok := got["c"]; ok {
		t.Errorf("不存在的 key 不应出现在结果中")
	}
}

func TestMemoryStore_ZRange(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	for member, score := range map[string]float64{"a": 1, "b": 3, "c": 2, "d": 2} {
		if err := m.ZAdd(ctx, "z", score, member); err != nil {
			t.Fatalf("ZAdd() error = %v", err)
		}
	}

	tests := []struct {
		name        string
		asc         bool
		start, stop int64
		want        []string
	}{
		{name: "desc all", start: 0, stop: -1, want: []string{"b", "d", "c", "a"}},
		{name: "asc all", asc: true, start: 0, stop: -1, want: []string{"a", "c", "d", "b"}},
		{name: "desc page", start: 1, stop: 2, want: []string{"d", "c"}},
		{name: "asc past end", asc: true, start: 3, stop: 10, want: []string{"b"}},
		{name: "empty range", start: 5, stop: 9, want: nil},
		{name: "negative start", asc: true, start: -2, stop: -1, want: []string{"d", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			var err error
			if tt.asc {
				got, err = m.ZRangeAsc(ctx, "z", tt.start, tt.stop)
			} else {
				got, err = m.ZRange(ctx, "z", tt.start, tt.stop)
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if s, err := m.ZScore(ctx, "z", "b"); err != nil || s != 3 {
		t.Errorf("ZScore(b) = %v, %v", s, err)
	}
	if err := m.ZRem(ctx, "z", "b"); err != nil {
		t.Fatalf("ZRem() error = %v", err)
	}
	if _, err := m.ZScore(ctx, "z", "b"); !core.IsStoreNotFound(err) {
		t.Errorf("ZScore after ZRem error = %v", err)
	}
}

func TestOpen(t *testing.T) {
	kv, err := Open(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Open(default) error = %v", err)
	}
	defer kv.Close()
	if kv.Name() != "memory" {
		t.Errorf("Name() = %q, want memory", kv.Name())
	}
	if _, err := Open(context.Background(), Options{Backend: "etcd"}); !core.IsInvalidInput(err) {
		t.Errorf("Open(etcd) error = %v, want INVALID_INPUT", err)
	}
}
