package feast

import (
	"context"
	"errors"
	"sync"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rushteam/swiperec/core"
	"github.com/rushteam/swiperec/interaction"
	"github.com/rushteam/swiperec/pkg/vecmath"
	"github.com/rushteam/swiperec/preference"
	"github.com/rushteam/swiperec/store"
)

type fakeFetcher struct {
	mu    sync.Mutex
	vecs  map[string]core.Vector
	err   error
	calls [][]string
}

func (f *fakeFetcher) FetchEmbeddings(ctx context.Context, ids []string) (map[string]core.Vector, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]core.Vector)
	for _, id := range ids {
		if v, ok := f.vecs[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func newSourceRepo(t *testing.T) *store.Repository {
	t.Helper()
	kv := store.NewMemoryStore()
	t.Cleanup(func() { _ = kv.Close() })
	repo := store.NewRepository(kv)
	ctx := context.Background()
	for _, p := range []*core.Product{
		{ID: "has", Category: core.CategoryClothing, Embedding: core.Vector{1, 1}},
		{ID: "bare", Category: core.CategoryClothing},
		{ID: "unknown", Category: core.CategoryClothing},
	} {
		if err := repo.SaveProduct(ctx, p); err != nil {
			t.Fatalf("SaveProduct(%s) error = %v", p.ID, err)
		}
	}
	return repo
}

func TestEmbeddingSource_FillsMissing(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{vecs: map[string]core.Vector{"bare": {0.5, -0.5}, "has": {9, 9}}}
	src := NewEmbeddingSource(newSourceRepo(t), fetcher, BreakerConfig{})

	ps, err := src.FindProductsByIDs(ctx, []string{"has", "bare", "unknown"})
	if err != nil {
		t.Fatalf("FindProductsByIDs() error = %v", err)
	}
	if len(ps) != 3 {
		t.Fatalf("got %d products, want 3", len(ps))
	}
	if got := ps[0].Embedding; len(got) != 2 || got[0] != 1 {
		t.Errorf("existing embedding overwritten: %v", got)
	}
	if got := ps[1].Embedding; len(got) != 2 || got[0] != 0.5 {
		t.Errorf("bare embedding = %v, want [0.5 -0.5]", got)
	}
	if len(ps[2].Embedding) != 0 {
		t.Errorf("unknown embedding = %v, want empty", ps[2].Embedding)
	}
	if len(fetcher.calls) != 1 || len(fetcher.calls[0]) != 2 {
		t.Errorf("fetch calls = %v, want one call for [bare unknown]", fetcher.calls)
	}

	p, err := src.FindProductByID(ctx, "has")
	if err != nil {
		t.Fatalf("FindProductByID() error = %v", err)
	}
	if p.Embedding[0] != 1 {
		t.Errorf("FindProductByID embedding = %v", p.Embedding)
	}
	if len(fetcher.calls) != 1 {
		t.Errorf("fetcher called for product with embedding")
	}
}

func TestEmbeddingSource_FindProducts(t *testing.T) {
	fetcher := &fakeFetcher{vecs: map[string]core.Vector{"bare": {0, 1}}}
	src := NewEmbeddingSource(newSourceRepo(t), fetcher, BreakerConfig{})

	ps, err := src.FindProducts(context.Background(), core.ProductQuery{Category: core.CategoryClothing})
	if err != nil {
		t.Fatalf("FindProducts() error = %v", err)
	}
	for _, p := range ps {
		if p.ID == "bare" && len(p.Embedding) != 2 {
			t.Errorf("bare not filled: %v", p.Embedding)
		}
	}
}

func TestEmbeddingSource_FailOpenAndTrip(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{err: errors.New("feast down")}
	src := NewEmbeddingSource(newSourceRepo(t), fetcher, BreakerConfig{FailureThreshold: 2})

	for i := 0; i < 3; i++ {
		p, err := src.FindProductByID(ctx, "bare")
		if err != nil {
			t.Fatalf("FindProductByID() error = %v, want fail-open", err)
		}
		if len(p.Embedding) != 0 {
			t.Errorf("embedding = %v, want empty", p.Embedding)
		}
	}
	if src.State() != gobreaker.StateOpen {
		t.Errorf("breaker state = %v, want open", src.State())
	}
	if len(fetcher.calls) != 2 {
		t.Errorf("fetch calls = %d, want 2 (open breaker short-circuits)", len(fetcher.calls))
	}
}

func TestEmbeddingSource_PassesThroughNotFound(t *testing.T) {
	src := NewEmbeddingSource(newSourceRepo(t), &fakeFetcher{}, BreakerConfig{})
	if _, err := src.FindProductByID(context.Background(), "missing"); !core.IsNotFound(err) {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}

func TestEmbeddingSource_CommitDoesNotPersistFilled(t *testing.T) {
	ctx := context.Background()
	repo := newSourceRepo(t)
	if err := repo.SaveUser(ctx, core.NewUser("u1", core.GenderFemale)); err != nil {
		t.Fatalf("SaveUser() error = %v", err)
	}
	fetcher := &fakeFetcher{vecs: map[string]core.Vector{"bare": {0.5, -0.5}}}
	src := NewEmbeddingSource(repo, fetcher, BreakerConfig{})
	svc := interaction.NewService(src, preference.MustNewRule(preference.DefaultConfig()))

	for _, id := range []string{"bare", "has"} {
		if out, err := svc.Record(ctx, "u1", id, core.InteractionLike); err != nil || out != interaction.OutcomeCreated {
			t.Fatalf("Record(%s) = %v, %v", id, out, err)
		}
	}

	bare, err := repo.FindProductByID(ctx, "bare")
	if err != nil {
		t.Fatalf("FindProductByID(bare) error = %v", err)
	}
	if len(bare.Embedding) != 0 {
		t.Errorf("filled embedding written back: %v", bare.Embedding)
	}
	if bare.Counts.Likes != 1 {
		t.Errorf("bare counts = %+v", bare.Counts)
	}
	has, err := repo.FindProductByID(ctx, "has")
	if err != nil {
		t.Fatalf("FindProductByID(has) error = %v", err)
	}
	if !vecmath.Equal(has.Embedding, core.Vector{1, 1}, 0) || has.Counts.Likes != 1 {
		t.Errorf("has = %+v", has)
	}

	u, err := repo.FindUserByID(ctx, "u1")
	if err != nil {
		t.Fatalf("FindUserByID() error = %v", err)
	}
	// 0.1*[0.5,-0.5] 之后再朝 [1,1] 移动 0.1
	want := core.Vector{0.05 + 0.1*(1-0.05), -0.05 + 0.1*(1+0.05)}
	if got := u.Preferences.Get(core.CategoryClothing); !vecmath.Equal(got, want, 1e-12) {
		t.Errorf("clothing = %v, want %v", got, want)
	}
}
