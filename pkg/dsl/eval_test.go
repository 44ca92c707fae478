package dsl

import (
	"testing"
	"time"

	"github.com/rushteam/swiperec/core"
	"github.com/rushteam/swiperec/pkg/utils"
)

func TestProgram_Eval(t *testing.T) {
	p := &core.Product{
		ID:        "p1",
		Name:      "linen shirt",
		Category:  core.CategoryClothing,
		Gender:    core.GenderFemale,
		Price:     59.9,
		Counts:    core.InteractionCounts{Likes: 4, Dislikes: 12},
		CreatedAt: time.Unix(1700000000, 0),
	}
	item := core.NewItem(p)
	item.Score = 0.75
	item.PutLabel("recall_source", utils.Label{Value: "catalog", Source: "recall"})

	rctx := &core.RecommendContext{
		UserID:   "u1",
		User:     core.NewUser("u1", core.GenderFemale),
		Category: core.CategoryClothing,
		Limit:    10,
		Params:   map[string]any{"max_price": 100.0},
	}

	tests := []struct {
		expr string
		want bool
	}{
		{`item.price <= 100.0`, true},
		{`item.counts.dislikes < 10`, false},
		{`item.counts.total == 16`, true},
		{`label.recall_source == "catalog" && item.score > 0.5`, true},
		{`has(label.rank_model)`, false},
		{`item.category == rctx.category && item.gender == rctx.gender`, true},
		{`!has(rctx.params.max_price) || item.price <= rctx.params.max_price`, true},
		{`rctx.limit >= 10 && item.created_at > 0`, true},
		{`item.name.contains("shirt")`, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			prg, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			got, err := prg.Eval(item, rctx)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	if _, err := Compile(`item.price <=`); !core.IsInvalidInput(err) {
		t.Errorf("Compile(syntax error) = %v, want INVALID_INPUT", err)
	}
	prg := MustCompile(`item.score`)
	if _, err := prg.Eval(core.NewItem(nil), nil); err == nil {
		t.Errorf("non-bool expression should fail at eval")
	}
}

func TestEval_Empty(t *testing.T) {
	ok, err := Eval("", nil, nil)
	if err != nil || !ok {
		t.Errorf("Eval(\"\") = %v, %v", ok, err)
	}
}
