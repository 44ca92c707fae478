package feast

import (
	"context"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rushteam/swiperec/core"
	"github.com/rushteam/swiperec/pkg/logging"
)

// EmbeddingSource 装饰 core.Repository：读出的商品若没有 embedding，从 Fetcher 补齐。
//
// 补齐的 embedding 不回写存储：Commit 时若存储中的商品没有 embedding，
// 提交的商品副本也去掉 embedding。Fetcher 失败或熔断打开时原样返回商品。
type EmbeddingSource struct {
	core.Repository

	fetcher Fetcher
	breaker *gobreaker.CircuitBreaker[map[string]core.Vector]
	logger  zerolog.Logger
}

// SourceOption 配置 EmbeddingSource。
type SourceOption func(*EmbeddingSource)

// WithLogger 设置日志。
func WithLogger(l zerolog.Logger) SourceOption {
	return func(s *EmbeddingSource) { s.logger = logging.Component(l, "feast") }
}

// NewEmbeddingSource 创建装饰器，breaker 配置取自 cfg.Breaker（零值使用默认）。
func NewEmbeddingSource(repo core.Repository, fetcher Fetcher, cfg BreakerConfig, opts ...SourceOption) *EmbeddingSource {
	full := Config{Breaker: cfg}
	full.ApplyDefaults()
	cfg = full.Breaker

	s := &EmbeddingSource{
		Repository: repo,
		fetcher:    fetcher,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.breaker = gobreaker.NewCircuitBreaker[map[string]core.Vector](gobreaker.Settings{
		Name:        "feast-embeddings",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
	return s
}

// FindProductByID 读取商品并补齐 embedding。
func (s *EmbeddingSource) FindProductByID(ctx context.Context, id string) (*core.Product, error) {
	p, err := s.Repository.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, []*core.Product{p})
	return p, nil
}

// FindProducts 查询商品并补齐 embedding。
func (s *EmbeddingSource) FindProducts(ctx context.Context, q core.ProductQuery) ([]*core.Product, error) {
	ps, err := s.Repository.FindProducts(ctx, q)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, ps)
	return ps, nil
}

// FindProductsByIDs 批量读取商品并补齐 embedding。
func (s *EmbeddingSource) FindProductsByIDs(ctx context.Context, ids []string) ([]*core.Product, error) {
	ps, err := s.Repository.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, ps)
	return ps, nil
}

// Commit 提交变更集，去掉由 Fetcher 补齐的商品 embedding。
func (s *EmbeddingSource) Commit(ctx context.Context, cs *core.ChangeSet) error {
	if cs != nil && cs.Product != nil && len(cs.Product.Embedding) > 0 {
		stored, err := s.Repository.FindProductByID(ctx, cs.Product.ID)
		if err != nil && !core.IsNotFound(err) {
			return err
		}
		if err == nil && len(stored.Embedding) == 0 {
			p := cs.Product.Clone()
			p.Embedding = nil
			next := *cs
			next.Product = p
			cs = &next
		}
	}
	return s.Repository.Commit(ctx, cs)
}

// State 返回熔断器当前状态。
func (s *EmbeddingSource) State() gobreaker.State {
	return s.breaker.State()
}

func (s *EmbeddingSource) fill(ctx context.Context, ps []*core.Product) {
	var missing []string
	for _, p := range ps {
		if p != nil && len(p.Embedding) == 0 {
			missing = append(missing, p.ID)
		}
	}
	if len(missing) == 0 {
		return
	}

	vecs, err := s.breaker.Execute(func() (map[string]core.Vector, error) {
		return s.fetcher.FetchEmbeddings(ctx, missing)
	})
	if err != nil {
		s.logger.Warn().Err(err).Int("missing", len(missing)).Msg("embedding fetch failed")
		return
	}

	for _, p := range ps {
		if p == nil || len(p.Embedding) > 0 {
			continue
		}
		if v, ok := vecs[p.ID]; ok {
			p.Embedding = append(core.Vector(nil), v...)
		}
	}
	s.logger.Debug().Int("missing", len(missing)).Int("filled", len(vecs)).Msg("embeddings filled")
}

var _ core.Repository = (*EmbeddingSource)(nil)
