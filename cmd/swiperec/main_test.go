package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCatalog = `[
  {"id": "c1", "name": "Shirt", "category": "clothing", "gender": "female", "price": 20, "embedding": [1, 0], "created_at": "2024-01-01T00:00:00Z"},
  {"id": "c2", "name": "Dress", "category": "clothing", "gender": "female", "price": 40, "embedding": [0.9, 0.1], "created_at": "2024-01-02T00:00:00Z"},
  {"id": "c3", "name": "Jacket", "category": "clothing", "gender": "unisex", "price": 60, "embedding": [-1, 0], "created_at": "2024-01-03T00:00:00Z"},
  {"id": "c4", "name": "Suit", "category": "clothing", "gender": "male", "price": 80, "embedding": [0, 1], "created_at": "2024-01-04T00:00:00Z"},
  {"id": "f1", "name": "Boot", "category": "footwear", "gender": "unisex", "price": 90, "embedding": [1, 0], "created_at": "2024-01-05T00:00:00Z"}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Demo(t *testing.T) {
	catalog := writeFile(t, "catalog.json", testCatalog)
	cfg := writeFile(t, "swiperec.yaml", "log: {level: disabled}\n")

	var out bytes.Buffer
	err := run(context.Background(), []string{"demo", "-config", cfg, "-catalog", catalog, "-swipes", "like", "-stats"}, &out)
	if err != nil {
		t.Fatalf("run(demo) error = %v\n%s", err, out.String())
	}
	got := out.String()
	for _, want := range []string{
		"seeded 5 products, user demo (female)",
		"recommendations for demo in clothing (3)",
		"swipe like     c3           created",
		"recommendations for demo in clothing (2)",
		"history for demo (1)",
		"swiperec_interactions_total{outcome=created,type=like} 1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
	if strings.Contains(got, "c4") {
		t.Errorf("male product recommended to female user\n%s", got)
	}
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	ctx := context.Background()

	if err := run(ctx, nil, &out); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("run() error = %v, want flag.ErrHelp", err)
	}
	if err := run(ctx, []string{"nope"}, &out); err == nil {
		t.Error("run(nope) expected error")
	}
	if err := run(ctx, []string{"seed", "-catalog", filepath.Join(t.TempDir(), "missing.json")}, &out); err == nil {
		t.Error("run(seed missing) expected error")
	}
	if err := run(ctx, []string{"recommend", "-user", "ghost"}, &out); err == nil {
		t.Error("run(recommend ghost) expected error")
	}
	if err := run(ctx, []string{"swipe", "-user", "u", "-product", "p", "-type", "superlike"}, &out); err == nil {
		t.Error("run(swipe superlike) expected error")
	}
}

func TestRun_User(t *testing.T) {
	var out bytes.Buffer
	cfg := writeFile(t, "swiperec.yaml", "log: {level: disabled}\n")
	if err := run(context.Background(), []string{"user", "-config", cfg, "-id", "ann", "-gender", "female"}, &out); err != nil {
		t.Fatalf("run(user) error = %v", err)
	}
	if !strings.Contains(out.String(), "created user ann (female)") {
		t.Errorf("output = %q", out.String())
	}
}
