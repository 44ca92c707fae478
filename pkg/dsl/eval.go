// Package dsl 用 CEL (Common Expression Language) 实现候选过滤表达式。
//
// 可用变量：
//
//	item.id / item.score / item.name / item.category / item.gender / item.price
//	item.created_at（unix 秒）/ item.counts.{favorites,likes,dislikes,neutral,total}
//	label.<key>   Label 的 Value（先用 has(label.key) 判断存在性）
//	rctx.user_id / rctx.category / rctx.gender / rctx.limit / rctx.params
//
// 示例：
//
//	item.price <= 200.0 && item.counts.dislikes < 10
//	label.recall_source == "catalog" && item.score > 0.2
//	!has(rctx.params.max_price) || item.price <= rctx.params.max_price
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/swiperec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的布尔表达式，可并发复用。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式；表达式必须返回 bool（求值时检查）。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, core.InvalidInputf(core.ModuleRecommend, "compile %q: %v", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// MustCompile 与 Compile 相同，失败时 panic。
func MustCompile(expr string) *Program {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Program) String() string { return p.expr }

// Eval 对单个候选求值。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eval %q: expression must return bool, got %T", p.expr, out.Value())
	}
	return result, nil
}

// Eval 编译并执行一次表达式；空表达式恒为 true。频繁调用请用 Compile 缓存。
func Eval(expr string, item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if expr == "" {
		return true, nil
	}
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Eval(item, rctx)
}

func buildInput(it *core.Item, rctx *core.RecommendContext) map[string]any {
	item := map[string]any{}
	label := map[string]any{}
	if it != nil {
		item["id"] = it.ID
		item["score"] = it.Score
		if p := it.Product; p != nil {
			item["name"] = p.Name
			item["category"] = string(p.Category)
			item["gender"] = string(p.Gender)
			item["price"] = p.Price
			item["created_at"] = p.CreatedAt.Unix()
			item["counts"] = map[string]any{
				"favorites": int64(p.Counts.Favorites),
				"likes":     int64(p.Counts.Likes),
				"dislikes":  int64(p.Counts.Dislikes),
				"neutral":   int64(p.Counts.Neutral),
				"total":     int64(p.Counts.Total()),
			}
		}
		for k, v := range it.Labels {
			label[k] = v.Value
		}
	}

	r := map[string]any{}
	if rctx != nil {
		r["user_id"] = rctx.UserID
		r["category"] = string(rctx.Category)
		r["limit"] = int64(rctx.Limit)
		params := rctx.Params
		if params == nil {
			params = map[string]any{}
		}
		r["params"] = params
		if rctx.User != nil {
			r["gender"] = string(rctx.User.Gender)
		}
	}

	return map[string]any{
		"item":  item,
		"label": label,
		"rctx":  r,
	}
}
