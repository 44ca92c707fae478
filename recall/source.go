package recall

import (
	"context"

	"github.com/rushteam/swiperec/core"
)

// Source 是一个召回源：根据请求上下文从商品目录生成候选。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
