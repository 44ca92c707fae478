package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/rushteam/swiperec"
	"github.com/rushteam/swiperec/config"
	"github.com/rushteam/swiperec/core"
)

// app 在 swiperec.System 之上提供命令行输出。
type app struct {
	*swiperec.System
	out io.Writer
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newApp(ctx context.Context, cfg *config.Config, out io.Writer) (*app, error) {
	sys, err := swiperec.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &app{System: sys, out: out}, nil
}

// seedCatalog 从 JSON 数组导入商品，返回导入数量。
func (a *app) seedCatalog(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog: %w", err)
	}
	var products []*core.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return 0, fmt.Errorf("parse catalog: %w", err)
	}
	for _, p := range products {
		if err := a.Repo.SaveProduct(ctx, p); err != nil {
			return 0, fmt.Errorf("save product %s: %w", p.ID, err)
		}
	}
	return len(products), nil
}

func (a *app) createUser(ctx context.Context, id, gender string) (*core.User, error) {
	g, err := core.ParseGender(gender)
	if err != nil {
		return nil, err
	}
	u := core.NewUser(id, g)
	if err := a.Repo.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (a *app) printRecommendations(ctx context.Context, userID, category string, limit int) error {
	items, err := a.Recommender.RecommendItems(ctx, userID, category, limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "recommendations for %s in %s (%d):\n", userID, category, len(items))
	for i, it := range items {
		source := it.Labels["recall_source"].Values()
		fmt.Fprintf(a.out, "  %2d. %-12s score=%.4f source=%v %s\n", i+1, it.ID, it.Score, source, it.Product.Name)
	}
	return nil
}

func (a *app) printHistory(ctx context.Context, userID, kind, category string) error {
	entries, err := a.Interactions.History(ctx, userID, kind, category)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "history for %s (%d):\n", userID, len(entries))
	for _, e := range entries {
		fmt.Fprintf(a.out, "  %-12s %-9s %s\n", e.Product.ID, e.Type, e.Product.Category)
	}
	return nil
}
