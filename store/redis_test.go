package store

import (
	"context"
	"testing"
)

// TestRedisStore_Commit 需要本地 Redis（localhost:6379）才能运行。
func TestRedisStore_Commit(t *testing.T) {
	t.Skip("需要连接真实的 Redis 服务器才能运行")

	ctx := context.Background()
	kv, err := NewRedisStore(ctx, "localhost:6379", "", 15)
	if err != nil {
		t.Fatalf("连接 Redis 失败: %v", err)
	}
	defer kv.Close()

	if err := kv.BatchSet(ctx, map[string][]byte{"swiperec:test:a": []byte("1")}); err != nil {
		t.Fatalf("BatchSet() error = %v", err)
	}
	got, err := kv.Get(ctx, "swiperec:test:a")
	if err != nil || string(got) != "1" {
		t.Errorf("Get() = %q, %v", got, err)
	}
	_ = kv.Delete(ctx, "swiperec:test:a")
}
