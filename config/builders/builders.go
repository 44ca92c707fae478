// Package builders 在 init 中向 config 注册内置的后置 Node：
//
//	filter.expr       CEL 表达式过滤（expr, invert）
//	filter.blacklist  运营黑名单（item_ids, key）
//	filter.user_block 用户屏蔽列表（key_prefix），需要 BindStore
//	rerank.topn       截断（n, min_score）
//
// 需要 KV 存储的过滤器在 BindStore 之后才能读取存储。
package builders

import (
	"fmt"
	"math"

	"github.com/rushteam/swiperec/config"
	"github.com/rushteam/swiperec/core"
	"github.com/rushteam/swiperec/filter"
	"github.com/rushteam/swiperec/pipeline"
	"github.com/rushteam/swiperec/pkg/conv"
	"github.com/rushteam/swiperec/rerank"
)

func init() {
	config.Register("filter.expr", BuildExprNode)
	config.Register("filter.blacklist", BlacklistBuilder(nil))
	config.Register("filter.user_block", UserBlockBuilder(nil))
	config.Register("rerank.topn", BuildTopNNode)
}

// BindStore 用 s 重新注册依赖存储的过滤器。
func BindStore(s core.Store) {
	config.Register("filter.blacklist", BlacklistBuilder(s))
	config.Register("filter.user_block", UserBlockBuilder(s))
}

// BuildExprNode 构建 CEL 过滤节点。
func BuildExprNode(cfg map[string]any) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("filter.expr: expr is required")
	}
	f, err := filter.NewExprFilter(expr, conv.ConfigGet(cfg, "invert", false))
	if err != nil {
		return nil, err
	}
	return &filter.FilterNode{Filters: []filter.Filter{f}}, nil
}

// BlacklistBuilder 返回黑名单节点构建器；s 为 nil 时只支持 item_ids。
func BlacklistBuilder(s core.Store) pipeline.NodeBuilder {
	return func(cfg map[string]any) (pipeline.Node, error) {
		ids := conv.ConfigGetStrings(cfg, "item_ids")
		key := conv.ConfigGet(cfg, "key", "")
		if key != "" && s == nil {
			return nil, fmt.Errorf("filter.blacklist: key %q requires a bound store", key)
		}
		var bs filter.BlacklistStore
		if s != nil {
			bs = filter.NewStoreAdapter(s)
		}
		return &filter.FilterNode{Filters: []filter.Filter{filter.NewBlacklistFilter(ids, bs, key)}}, nil
	}
}

// UserBlockBuilder 返回用户屏蔽节点构建器。
func UserBlockBuilder(s core.Store) pipeline.NodeBuilder {
	return func(cfg map[string]any) (pipeline.Node, error) {
		if s == nil {
			return nil, fmt.Errorf("filter.user_block requires a bound store")
		}
		prefix := conv.ConfigGet(cfg, "key_prefix", "user_block")
		return &filter.FilterNode{Filters: []filter.Filter{
			&filter.UserBlockFilter{Store: filter.NewStoreAdapter(s), KeyPrefix: prefix},
		}}, nil
	}
}

// BuildTopNNode 构建截断节点；n <= 0 时使用请求的 limit，未配置 min_score 时不按分数过滤。
func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	node := &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}
	if _, ok := cfg["min_score"]; ok {
		minScore := conv.ConfigGetFloat64(cfg, "min_score", math.Inf(-1))
		node.MinScore = &minScore
	}
	return node, nil
}
