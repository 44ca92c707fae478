package core

import "github.com/rushteam/swiperec/pkg/utils"

// RecommendContext 承载一次推荐请求的用户/类目/数量信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string

	// User 是已解析的用户实体（只读）
	User *User

	// Category 是本次推荐的目标类目
	Category Category

	// Limit 是本次返回的最大数量（已截断到 [1, MaxLimit]）
	Limit int

	// Labels 是请求级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级上下文参数（CEL 表达式中可通过 rctx.params 访问）
	Params map[string]any

	// interacted 是 User.History 的集合形式，首次调用 Interacted 时构建
	interacted map[string]struct{}
}

// Interacted 报告 id 是否出现在用户历史中。集合每个请求只构建一次，
// 之后对 User.History 的修改不可见。
func (rctx *RecommendContext) Interacted(id string) bool {
	if rctx == nil || rctx.User == nil {
		return false
	}
	if rctx.interacted == nil {
		rctx.interacted = rctx.User.History.Set()
	}
	_, ok := rctx.interacted[id]
	return ok
}

// PrimaryVector 返回目标类目的偏好向量。
func (rctx *RecommendContext) PrimaryVector() Vector {
	if rctx == nil || rctx.User == nil {
		return Vector{}
	}
	return rctx.User.Preferences.Get(rctx.Category)
}

// SecondaryVector 返回伙伴类目的偏好向量；accessories 没有伙伴类目。
func (rctx *RecommendContext) SecondaryVector() (Vector, bool) {
	if rctx == nil || rctx.User == nil {
		return Vector{}, false
	}
	paired, ok := rctx.Category.Paired()
	if !ok {
		return Vector{}, false
	}
	return rctx.User.Preferences.Get(paired), true
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
