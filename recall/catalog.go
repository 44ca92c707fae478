package recall

import (
	"context"

	"github.com/rushteam/swiperec/core"
	"github.com/rushteam/swiperec/pipeline"
	"github.com/rushteam/swiperec/pkg/utils"
)

// Catalog 从商品目录按 {类目, 性别} 召回用户未交互过的商品。
// 同时实现 Source 与 Node，可直接放进 Pipeline。
//
// 召回数量为 rctx.Limit * Oversample，给后续打分重排留出空间。
type Catalog struct {
	Store core.ProductRepository

	// Sort 召回顺序：打分路径用 SortInsertion，兜底路径用 SortNewest
	Sort core.SortOrder

	// Oversample 超采样倍数，<= 0 时为 1
	Oversample int

	// Source 写入 recall_source 标签的值，默认 "catalog"
	Source string
}

func (r *Catalog) Name() string        { return "recall.catalog" }
func (r *Catalog) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Catalog) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Query 构建本次召回的商品查询。
func (r *Catalog) Query(rctx *core.RecommendContext) core.ProductQuery {
	factor := r.Oversample
	if factor <= 0 {
		factor = 1
	}
	q := core.ProductQuery{
		Category: rctx.Category,
		Limit:    rctx.Limit * factor,
		Sort:     r.Sort,
	}
	if rctx.User != nil {
		q.Genders = rctx.User.Gender.Audience()
		q.ExcludeIDs = rctx.User.History.All()
	}
	return q
}

func (r *Catalog) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Store == nil {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInternalError, "catalog recall: store is nil")
	}
	if rctx == nil || rctx.Limit <= 0 {
		return nil, nil
	}

	products, err := r.Store.FindProducts(ctx, r.Query(rctx))
	if err != nil {
		return nil, core.Unavailable(core.ModuleRecommend, "catalog recall", err)
	}

	source := r.Source
	if source == "" {
		source = "catalog"
	}
	out := make([]*core.Item, 0, len(products))
	for _, p := range products {
		it := core.NewItem(p)
		it.PutLabel("recall_source", utils.Label{Value: source, Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var (
	_ Source        = (*Catalog)(nil)
	_ pipeline.Node = (*Catalog)(nil)
)
