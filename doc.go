// Package swiperec 是基于滑动交互的偏好学习与推荐引擎。
//
// 设计要点：
//   - 每个用户在每个类目下有一个偏好向量，favorite/like/dislike/neutral 按学习率把它推向或推离商品 embedding
//   - clothing 与 footwear 之间以较小学习率联动，accessories 独立
//   - 同一 (user, product) 只有一条交互记录，改判时先精确撤销旧类型的影响再应用新类型
//   - 推荐走 Pipeline：目录召回 -> 过滤（已交互/性别/类目/CEL）-> 余弦打分 -> 截断；无偏好时按最新上架兜底
//
// 一般通过 Open 组装全部组件：
//
//	sys, err := swiperec.Open(ctx, config.Default())
//	defer sys.Close()
//	sys.Interactions.RecordInteraction(ctx, userID, productID, "like")
//	products, err := sys.Recommender.Recommend(ctx, userID, "clothing", 10)
package swiperec

import "github.com/rushteam/swiperec/pipeline"

// 轻量 facade：便于直接 import "swiperec" 编写自定义 Node。
type (
	Pipeline = pipeline.Pipeline
	Node     = pipeline.Node
	Kind     = pipeline.Kind
)

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)
