// Package recommend 组装推荐流水线：目录召回 -> 不变式过滤 -> 偏好打分 -> 后置节点 -> TopN。
// 用户没有主类目偏好或没有候选时，走最新优先的兜底路径，不打分。
package recommend

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/swiperec/core"
	"github.com/rushteam/swiperec/filter"
	"github.com/rushteam/swiperec/pipeline"
	"github.com/rushteam/swiperec/rank"
	"github.com/rushteam/swiperec/recall"
	"github.com/rushteam/swiperec/rerank"
)

const DefaultOversample = 3

// Config 是推荐引擎配置。
type Config struct {
	DefaultLimit    int     `yaml:"default_limit"`
	MaxLimit        int     `yaml:"max_limit"`
	Oversample      int     `yaml:"oversample"`
	PrimaryWeight   float64 `yaml:"primary_weight"`
	SecondaryWeight float64 `yaml:"secondary_weight"`

	// CandidateFilter 是可选的 CEL 表达式，为 false 的候选被过滤
	CandidateFilter string `yaml:"candidate_filter"`

	// PostNodes 在打分之后、TopN 之前执行
	PostNodes []pipeline.NodeConfig `yaml:"post_nodes"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		DefaultLimit:    core.DefaultLimit,
		MaxLimit:        core.MaxLimit,
		Oversample:      DefaultOversample,
		PrimaryWeight:   rank.DefaultPrimaryWeight,
		SecondaryWeight: rank.DefaultSecondaryWeight,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = d.DefaultLimit
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = d.MaxLimit
	}
	if c.Oversample <= 0 {
		c.Oversample = d.Oversample
	}
	if c.PrimaryWeight == 0 && c.SecondaryWeight == 0 {
		c.PrimaryWeight, c.SecondaryWeight = d.PrimaryWeight, d.SecondaryWeight
	}
}

// Engine 是只读的推荐引擎，不修改任何实体。
type Engine struct {
	cfg      Config
	users    core.UserRepository
	products core.ProductRepository
	logger   zerolog.Logger

	ranked   *pipeline.Pipeline
	fallback *pipeline.Pipeline
}

// Option 配置 Engine。
type Option func(*engineOptions)

type engineOptions struct {
	logger  zerolog.Logger
	factory *pipeline.NodeFactory
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithNodeFactory 指定构建 PostNodes 的工厂；未指定时 PostNodes 必须为空。
func WithNodeFactory(f *pipeline.NodeFactory) Option {
	return func(o *engineOptions) { o.factory = f }
}

// NewEngine 构建两条流水线：打分路径与兜底路径。
func NewEngine(users core.UserRepository, products core.ProductRepository, cfg Config, opts ...Option) (*Engine, error) {
	o := engineOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	cfg.applyDefaults()

	filters := []filter.Filter{&filter.InteractedFilter{}, &filter.GenderFilter{}, &filter.CategoryFilter{}}
	if cfg.CandidateFilter != "" {
		ef, err := filter.NewExprFilter(cfg.CandidateFilter, false)
		if err != nil {
			return nil, err
		}
		filters = append(filters, ef)
	}
	guard := &filter.FilterNode{Filters: filters}

	var post []pipeline.Node
	if len(cfg.PostNodes) > 0 {
		if o.factory == nil {
			return nil, core.InvalidInputf(core.ModuleRecommend, "post nodes configured without a node factory")
		}
		nodes, err := o.factory.BuildAll(cfg.PostNodes)
		if err != nil {
			return nil, core.InvalidInputf(core.ModuleRecommend, "%v", err)
		}
		post = nodes
	}

	ranked := (&pipeline.Pipeline{}).Append(
		&recall.Catalog{Store: products, Sort: core.SortInsertion, Oversample: cfg.Oversample},
		guard,
		&rank.PreferenceNode{PrimaryWeight: cfg.PrimaryWeight, SecondaryWeight: cfg.SecondaryWeight},
	)
	ranked.Append(post...)
	ranked.Append(&rerank.TopNNode{})

	fallback := (&pipeline.Pipeline{}).Append(
		&recall.Catalog{Store: products, Sort: core.SortNewest, Oversample: 1, Source: "newest"},
		guard,
	)
	fallback.Append(post...)
	fallback.Append(&rerank.TopNNode{})

	return &Engine{
		cfg:      cfg,
		users:    users,
		products: products,
		logger:   o.logger.With().Str("component", "recommend").Logger(),
		ranked:   ranked,
		fallback: fallback,
	}, nil
}

// Config 返回生效的配置。
func (e *Engine) Config() Config { return e.cfg }

// Recommend 为用户在 category 下推荐至多 limit 个未交互过的商品。
// limit <= 0 时使用 DefaultLimit，超过 MaxLimit 时截断。
func (e *Engine) Recommend(ctx context.Context, userID, category string, limit int) ([]*core.Product, error) {
	items, err := e.RecommendItems(ctx, userID, category, limit)
	if err != nil {
		return nil, err
	}
	return core.Products(items), nil
}

// RecommendItems 与 Recommend 相同，但返回带分数与标签的 Item。
func (e *Engine) RecommendItems(ctx context.Context, userID, category string, limit int) ([]*core.Item, error) {
	start := time.Now()
	cat, err := core.ParseCategory(category)
	if err != nil {
		RecommendRequestsTotal.WithLabelValues("invalid", "error").Inc()
		return nil, err
	}

	user, err := e.users.FindUserByID(ctx, userID)
	if err != nil {
		RecommendRequestsTotal.WithLabelValues(string(cat), "error").Inc()
		if !core.IsNotFound(err) {
			err = core.Unavailable(core.ModuleRecommend, "load user", err)
			e.logger.Warn().Err(err).Str("user_id", userID).Msg("recommend failed")
		}
		return nil, err
	}

	rctx := &core.RecommendContext{
		UserID:   user.ID,
		User:     user,
		Category: cat,
		Limit:    e.clamp(limit),
	}
	if v := ctx.Value(paramsKey{}); v != nil {
		rctx.Params, _ = v.(map[string]any)
	}

	path := "ranked"
	var out []*core.Item
	if len(rctx.PrimaryVector()) == 0 {
		path = "fallback"
		out, err = e.fallback.Run(ctx, rctx, nil)
	} else {
		out, err = e.ranked.Run(ctx, rctx, nil)
		if err == nil && len(out) == 0 {
			path = "fallback"
			out, err = e.fallback.Run(ctx, rctx, nil)
		}
	}
	if err != nil {
		RecommendRequestsTotal.WithLabelValues(string(cat), "error").Inc()
		e.logger.Warn().Err(err).Str("user_id", userID).Stringer("category", cat).Msg("recommend failed")
		return nil, core.Unavailable(core.ModuleRecommend, "run pipeline", err)
	}

	RecommendRequestsTotal.WithLabelValues(string(cat), path).Inc()
	RecommendReturnedItems.Observe(float64(len(out)))
	e.logger.Debug().
		Str("user_id", userID).
		Stringer("category", cat).
		Int("limit", rctx.Limit).
		Str("path", path).
		Int("returned", len(out)).
		Dur("took", time.Since(start)).
		Msg("recommend served")
	return out, nil
}

func (e *Engine) clamp(limit int) int {
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	return core.ClampLimit(limit, e.cfg.MaxLimit)
}

type paramsKey struct{}

// WithParams 把请求级参数放进 ctx，CEL 表达式中可通过 rctx.params 访问。
func WithParams(ctx context.Context, params map[string]any) context.Context {
	return context.WithValue(ctx, paramsKey{}, params)
}
