// Package rank 按用户偏好向量对候选打分排序。
package rank

import (
	"context"
	"sort"
	"strconv"

	"github.com/rushteam/swiperec/core"
	"github.com/rushteam/swiperec/pipeline"
	"github.com/rushteam/swiperec/pkg/utils"
	"github.com/rushteam/swiperec/pkg/vecmath"
)

const (
	DefaultPrimaryWeight   = 0.8
	DefaultSecondaryWeight = 0.2
)

// PreferenceNode 用余弦相似度打分：
//
//	score = cos(primary, e) * PrimaryWeight
//	      + cos(secondary, e) * SecondaryWeight   仅 clothing/footwear 且伙伴向量非空
//
// accessories 没有伙伴类目，只有主向量一项。按分数降序稳定排序，同分保持召回顺序。
type PreferenceNode struct {
	PrimaryWeight   float64
	SecondaryWeight float64
}

// NewPreferenceNode 使用默认权重 0.8 / 0.2。
func NewPreferenceNode() *PreferenceNode {
	return &PreferenceNode{PrimaryWeight: DefaultPrimaryWeight, SecondaryWeight: DefaultSecondaryWeight}
}

func (n *PreferenceNode) Name() string        { return "rank.preference" }
func (n *PreferenceNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *PreferenceNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	primary := rctx.PrimaryVector()
	secondary, paired := rctx.SecondaryVector()
	useSecondary := paired && len(secondary) > 0

	for _, it := range items {
		if it == nil || it.Product == nil {
			continue
		}
		e := it.Product.Embedding
		it.Score = vecmath.CosineSimilarity(primary, e) * n.PrimaryWeight
		if useSecondary {
			it.Score += vecmath.CosineSimilarity(secondary, e) * n.SecondaryWeight
		}
		it.PutLabel("rank_model", utils.Label{Value: "preference", Source: "rank"})
		it.PutLabel("rank_score", utils.Label{Value: strconv.FormatFloat(it.Score, 'f', 4, 64), Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items, nil
}
