package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rushteam/swiperec/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	kv := NewMemoryStore()
	t.Cleanup(func() { _ = kv.Close() })
	return NewRepository(kv, WithKeyPrefix("test:"))
}

func seedProduct(t *testing.T, repo *Repository, id string, c core.Category, g core.Gender, created time.Time) *core.Product {
	t.Helper()
	p := &core.Product{ID: id, Category: c, Gender: g, Embedding: core.Vector{1, 0}, CreatedAt: created}
	if err := repo.SaveProduct(context.Background(), p); err != nil {
		t.Fatalf("SaveProduct(%s) error = %v", id, err)
	}
	return p
}

func TestRepository_UserRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if _, err := repo.FindUserByID(ctx, "nobody"); !core.IsNotFound(err) {
		t.Fatalf("FindUserByID(nobody) error = %v, want NOT_FOUND", err)
	}

	u := &core.User{Username: "ann", Gender: core.GenderFemale}
	u.Preferences.Set(core.CategoryClothing, core.Vector{0.5, -0.5})
	u.History.Move("p1", core.InteractionLike)
	if err := repo.SaveUser(ctx, u); err != nil {
		t.Fatalf("SaveUser() error = %v", err)
	}
	if u.ID == "" {
		t.Fatalf("SaveUser 应该分配 ID")
	}

	got, err := repo.FindUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("FindUserByID() error = %v", err)
	}
	if got.Gender != core.GenderFemale || got.Username != "ann" {
		t.Errorf("got %+v", got)
	}
	if v := got.Preferences.Get(core.CategoryClothing); len(v) != 2 || v[0] != 0.5 {
		t.Errorf("preferences = %v", v)
	}
	if typ, ok := got.History.TypeOf("p1"); !ok || typ != core.InteractionLike {
		t.Errorf("history TypeOf(p1) = %v, %v", typ, ok)
	}
}

func TestRepository_SaveProductValidation(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.SaveProduct(context.Background(), &core.Product{ID: "x", Category: "hats"})
	if !core.IsInvalidInput(err) {
		t.Errorf("SaveProduct(hats) error = %v, want INVALID_INPUT", err)
	}
}

func TestRepository_FindProducts(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	seedProduct(t, repo, "c1", core.CategoryClothing, core.GenderFemale, base)
	seedProduct(t, repo, "c2", core.CategoryClothing, core.GenderMale, base.Add(time.Minute))
	seedProduct(t, repo, "c3", core.CategoryClothing, core.GenderUnisex, base.Add(2*time.Minute))
	seedProduct(t, repo, "c4", core.CategoryClothing, core.GenderFemale, base.Add(3*time.Minute))
	seedProduct(t, repo, "f1", core.CategoryFootwear, core.GenderFemale, base)

	tests := []struct {
		name string
		q    core.ProductQuery
		want []string
	}{
		{
			name: "insertion order",
			q:    core.ProductQuery{Category: core.CategoryClothing},
			want: []string{"c1", "c2", "c3", "c4"},
		},
		{
			name: "newest first",
			q:    core.ProductQuery{Category: core.CategoryClothing, Sort: core.SortNewest},
			want: []string{"c4", "c3", "c2", "c1"},
		},
		{
			name: "gender audience",
			q:    core.ProductQuery{Category: core.CategoryClothing, Genders: core.GenderFemale.Audience()},
			want: []string{"c1", "c3", "c4"},
		},
		{
			name: "exclude and limit",
			q: core.ProductQuery{
				Category:   core.CategoryClothing,
				ExcludeIDs: []string{"c1"},
				Limit:      2,
			},
			want: []string{"c2", "c3"},
		},
		{
			name: "other category",
			q:    core.ProductQuery{Category: core.CategoryAccessories},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindProducts(ctx, tt.q)
			if err != nil {
				t.Fatalf("FindProducts() error = %v", err)
			}
			if ids := productIDs(got); fmt.Sprint(ids) != fmt.Sprint(tt.want) {
				t.Errorf("FindProducts() = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestRepository_FindProductsPaging(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// 前 100 个是男款，后面 3 个女款，需要跨页才能凑满
	for i := 0; i < 100; i++ {
		seedProduct(t, repo, fmt.Sprintf("m%03d", i), core.CategoryFootwear, core.GenderMale, base.Add(time.Duration(i)*time.Second))
	}
	for i := 0; i < 3; i++ {
		seedProduct(t, repo, fmt.Sprintf("w%d", i), core.CategoryFootwear, core.GenderFemale, base.Add(time.Hour+time.Duration(i)*time.Second))
	}

	got, err := repo.FindProducts(ctx, core.ProductQuery{
		Category: core.CategoryFootwear,
		Genders:  []core.Gender{core.GenderFemale},
		Limit:    3,
	})
	if err != nil {
		t.Fatalf("FindProducts() error = %v", err)
	}
	if ids := productIDs(got); fmt.Sprint(ids) != "[w0 w1 w2]" {
		t.Errorf("FindProducts() = %v", ids)
	}
}

func TestRepository_CategoryChangeMovesIndex(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	p := seedProduct(t, repo, "p", core.CategoryClothing, core.GenderUnisex, time.Now())

	p.Category = core.CategoryFootwear
	if err := repo.SaveProduct(ctx, p); err != nil {
		t.Fatalf("SaveProduct() error = %v", err)
	}
	clothing, _ := repo.FindProducts(ctx, core.ProductQuery{Category: core.CategoryClothing})
	footwear, _ := repo.FindProducts(ctx, core.ProductQuery{Category: core.CategoryFootwear})
	if len(clothing) != 0 || len(footwear) != 1 {
		t.Errorf("clothing=%v footwear=%v", productIDs(clothing), productIDs(footwear))
	}
}

func TestRepository_IndexKeyDoesNotCollideWithProductIDs(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	t.Cleanup(func() { _ = kv.Close() })
	repo := NewRepository(kv, WithKeyPrefix("test:"))

	for _, c := range core.Categories() {
		id := "category:" + string(c)
		if repo.productKey(id) == repo.categoryKey(c) {
			t.Fatalf("product %q shares key with %s index", id, c)
		}
	}

	seedProduct(t, repo, "category:clothing", core.CategoryClothing, core.GenderUnisex, time.Now())
	members, err := kv.ZRange(ctx, "test:idx:product:category:clothing", 0, -1)
	if err != nil || len(members) != 1 || members[0] != "category:clothing" {
		t.Fatalf("index members = %v, %v", members, err)
	}
	if _, err := kv.Get(ctx, "test:product:category:clothing"); err != nil {
		t.Errorf("product document missing: %v", err)
	}
	got, err := repo.FindProducts(ctx, core.ProductQuery{Category: core.CategoryClothing})
	if err != nil || len(got) != 1 || got[0].ID != "category:clothing" {
		t.Errorf("FindProducts() = %v, %v", productIDs(got), err)
	}
}

func TestRepository_FindProductsByIDs(t *testing.T) {
	repo := newTestRepo(t)
	seedProduct(t, repo, "a", core.CategoryClothing, core.GenderUnisex, time.Now())
	seedProduct(t, repo, "b", core.CategoryFootwear, core.GenderUnisex, time.Now())

	got, err := repo.FindProductsByIDs(context.Background(), []string{"b", "missing", "a"})
	if err != nil {
		t.Fatalf("FindProductsByIDs() error = %v", err)
	}
	if ids := productIDs(got); fmt.Sprint(ids) != "[b a]" {
		t.Errorf("FindProductsByIDs() = %v", ids)
	}
}

func TestRepository_Commit(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	p := seedProduct(t, repo, "p", core.CategoryClothing, core.GenderUnisex, time.Now())
	u := core.NewUser("u", core.GenderMale)
	if err := repo.SaveUser(ctx, u); err != nil {
		t.Fatalf("SaveUser() error = %v", err)
	}

	u.History.Move(p.ID, core.InteractionLike)
	p.Counts.Inc(core.InteractionLike)
	cs := &core.ChangeSet{
		User:              u,
		Product:           p,
		Interaction:       &core.Interaction{UserID: u.ID, ProductID: p.ID, Type: core.InteractionLike, Category: p.Category},
		CreateInteraction: true,
	}
	if err := repo.Commit(ctx, cs); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	gotU, _ := repo.FindUserByID(ctx, u.ID)
	gotP, _ := repo.FindProductByID(ctx, p.ID)
	gotI, err := repo.FindInteraction(ctx, u.ID, p.ID)
	if err != nil {
		t.Fatalf("FindInteraction() error = %v", err)
	}
	if !gotU.History.Contains(p.ID) || gotP.Counts.Likes != 1 || gotI.Type != core.InteractionLike {
		t.Errorf("commit not visible: user=%+v product=%+v interaction=%+v", gotU.History, gotP.Counts, gotI)
	}

	if err := repo.Commit(ctx, cs); !core.IsConflict(err) {
		t.Errorf("重复创建应返回 CONFLICT，实际 %v", err)
	}
	if err := repo.CreateInteraction(ctx, cs.Interaction); !core.IsConflict(err) {
		t.Errorf("CreateInteraction duplicate error = %v", err)
	}

	gotI.Type = core.InteractionDislike
	if err := repo.SaveInteraction(ctx, gotI); err != nil {
		t.Fatalf("SaveInteraction() error = %v", err)
	}
	again, _ := repo.FindInteraction(ctx, u.ID, p.ID)
	if again.Type != core.InteractionDislike {
		t.Errorf("Type = %v, want dislike", again.Type)
	}
	if err := repo.Commit(ctx, &core.ChangeSet{}); err != nil {
		t.Errorf("empty Commit() error = %v", err)
	}
}

func productIDs(ps []*core.Product) []string {
	var ids []string
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}
