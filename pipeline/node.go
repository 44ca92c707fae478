package pipeline

import (
	"context"

	"github.com/rushteam/swiperec/core"
)

// Kind 标记 Node 所处阶段，便于日志与指标按阶段区分。
type Kind string

const (
	KindRecall Kind = "recall" // 召回：从商品目录生成候选
	KindFilter Kind = "filter" // 过滤：剔除已交互/性别不符/规则命中的候选
	KindRank   Kind = "rank"   // 排序：按偏好向量打分
	KindReRank Kind = "rerank" // 重排：截断与业务调整
)

// Node 是 Pipeline 的最小单元，统一为 "items 进，items 出"。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(cfg map[string]any) (Node, error)
