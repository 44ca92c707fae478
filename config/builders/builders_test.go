package builders

import (
	"context"
	"fmt"
	"testing"

	"github.com/rushteam/swiperec/config"
	"github.com/rushteam/swiperec/core"
	"github.com/rushteam/swiperec/filter"
	"github.com/rushteam/swiperec/pipeline"
	"github.com/rushteam/swiperec/recommend"
	"github.com/rushteam/swiperec/store"
)

func items(prices ...float64) []*core.Item {
	out := make([]*core.Item, len(prices))
	for i, price := range prices {
		out[i] = core.NewItem(&core.Product{ID: fmt.Sprintf("p%d", i), Price: price})
		out[i].Score = 1 - 0.25*float64(i)
	}
	return out
}

func ids(items []*core.Item) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return fmt.Sprint(out)
}

func TestBuiltinsRegistered(t *testing.T) {
	want := map[string]bool{"filter.expr": false, "filter.blacklist": false, "filter.user_block": false, "rerank.topn": false}
	for _, typ := range config.SupportedTypes() {
		if _, ok := want[typ]; ok {
			want[typ] = true
		}
	}
	for typ, ok := range want {
		if !ok {
			t.Errorf("%s not registered", typ)
		}
	}
}

func TestBuildNodes(t *testing.T) {
	ctx := context.Background()
	rctx := &core.RecommendContext{UserID: "u1", Limit: 2}

	tests := []struct {
		name string
		typ  string
		cfg  map[string]any
		want string
	}{
		{"expr keeps cheap", "filter.expr", map[string]any{"expr": "item.price < 50.0"}, "[p0 p2]"},
		{"expr inverted", "filter.expr", map[string]any{"expr": "item.price < 50.0", "invert": true}, "[p1 p3]"},
		{"blacklist", "filter.blacklist", map[string]any{"item_ids": []any{"p1", "p2"}}, "[p0 p3]"},
		{"topn explicit", "rerank.topn", map[string]any{"n": 3}, "[p0 p1 p2]"},
		{"topn from limit", "rerank.topn", nil, "[p0 p1]"},
		{"topn min score", "rerank.topn", map[string]any{"n": 4, "min_score": 0.4}, "[p0 p1 p2]"},
		{"topn integer min score", "rerank.topn", map[string]any{"n": 4, "min_score": 1}, "[p0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := config.DefaultFactory().Build(tt.typ, tt.cfg)
			if err != nil {
				t.Fatalf("Build(%s) error = %v", tt.typ, err)
			}
			out, err := node.Process(ctx, rctx, items(10, 500, 30, 90))
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if got := ids(out); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		b    pipeline.NodeBuilder
		cfg  map[string]any
	}{
		{"expr missing", BuildExprNode, map[string]any{}},
		{"expr invalid", BuildExprNode, map[string]any{"expr": "item."}},
		{"blacklist key without store", BlacklistBuilder(nil), map[string]any{"key": "ops"}},
		{"user block without store", UserBlockBuilder(nil), map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.b(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestUserBlockFromConfig(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	t.Cleanup(func() { _ = kv.Close() })
	BindStore(kv)
	t.Cleanup(func() {
		config.Register("filter.blacklist", BlacklistBuilder(nil))
		config.Register("filter.user_block", UserBlockBuilder(nil))
	})

	repo := store.NewRepository(kv)
	for i := 0; i < 3; i++ {
		p := &core.Product{ID: fmt.Sprintf("p%d", i), Category: core.CategoryFootwear, Embedding: core.Vector{1, 0}}
		if err := repo.SaveProduct(ctx, p); err != nil {
			t.Fatalf("SaveProduct() error = %v", err)
		}
	}
	u := core.NewUser("ivy", core.GenderUnisex)
	if err := repo.SaveUser(ctx, u); err != nil {
		t.Fatalf("SaveUser() error = %v", err)
	}
	if err := filter.NewStoreAdapter(kv).PutBlacklist(ctx, "block:ivy", []string{"p1"}); err != nil {
		t.Fatalf("PutBlacklist() error = %v", err)
	}
	if err := filter.NewStoreAdapter(kv).PutBlacklist(ctx, "ops", []string{"p2"}); err != nil {
		t.Fatalf("PutBlacklist() error = %v", err)
	}

	cfg, err := config.Parse([]byte(`
recommend:
  post_nodes:
    - type: filter.user_block
      config: {key_prefix: block}
    - type: filter.blacklist
      config: {key: ops}
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	e, err := recommend.NewEngine(repo, repo, cfg.Recommend, recommend.WithNodeFactory(config.DefaultFactory()))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	got, err := e.Recommend(ctx, "ivy", "footwear", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "p0" {
		t.Errorf("Recommend() = %d products, want only p0", len(got))
	}
}
