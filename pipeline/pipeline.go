package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/swiperec/core"
)

// Pipeline 把一次推荐拆成可组合的 Node 链：召回 -> 过滤 -> 排序 -> 重排。
type Pipeline struct {
	Nodes []Node
}

// Append 追加节点，返回自身便于链式构建。
func (p *Pipeline) Append(nodes ...Node) *Pipeline {
	for _, n := range nodes {
		if n != nil {
			p.Nodes = append(p.Nodes, n)
		}
	}
	return p
}

// Run 依次执行每个 Node。任一 Node 出错即中止，错误带上节点名。
func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", node.Kind(), node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}
