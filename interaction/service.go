package interaction

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/swiperec/core"
	"github.com/rushteam/swiperec/preference"
)

// Service 编排台账操作：并行读取用户/商品/交互，交给 Ledger 计算新状态，
// 再通过一次 Repository.Commit 写回。
type Service struct {
	repo   core.Repository
	ledger *Ledger
	logger zerolog.Logger
}

// Option 配置 Service。
type Option func(*Service)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l.With().Str("component", "interaction").Logger() }
}

// WithClock 替换台账的时间来源（测试用）。
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.ledger.now = now }
}

func NewService(repo core.Repository, rule *preference.Rule, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		ledger: NewLedger(rule),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordInteraction 解析交互类型后记录交互。类型非法时不做任何读写。
func (s *Service) RecordInteraction(ctx context.Context, userID, productID, kind string) (Outcome, error) {
	t, err := core.ParseInteractionType(kind)
	if err != nil {
		recordOutcome("invalid", "error")
		return 0, err
	}
	return s.Record(ctx, userID, productID, t)
}

// Recategorize 解析交互类型后改判已有交互。
func (s *Service) Recategorize(ctx context.Context, userID, productID, kind string) (Outcome, error) {
	t, err := core.ParseInteractionType(kind)
	if err != nil {
		recordOutcome("invalid", "error")
		return 0, err
	}
	return s.RecategorizeType(ctx, userID, productID, t)
}

func (s *Service) Record(ctx context.Context, userID, productID string, t core.InteractionType) (Outcome, error) {
	return s.run(ctx, "record", userID, productID, t, s.ledger.Record)
}

func (s *Service) RecategorizeType(ctx context.Context, userID, productID string, t core.InteractionType) (Outcome, error) {
	return s.run(ctx, "recategorize", userID, productID, t, s.ledger.Recategorize)
}

type transition func(State, core.InteractionType) (State, Outcome, error)

func (s *Service) run(ctx context.Context, op, userID, productID string, t core.InteractionType, fn transition) (Outcome, error) {
	start := time.Now()
	defer func() { InteractionDuration.WithLabelValues(op).Observe(time.Since(start).Seconds()) }()

	if !t.Valid() {
		recordOutcome("invalid", "error")
		return 0, core.InvalidInputf(core.ModuleInteraction, "invalid interaction type %d", int(t))
	}

	st, err := s.load(ctx, userID, productID)
	if err != nil {
		s.fail(op, userID, productID, t, err)
		return 0, err
	}
	next, outcome, err := fn(st, t)
	if err != nil {
		s.fail(op, userID, productID, t, err)
		return 0, err
	}
	if outcome.Changed() {
		if err := s.repo.Commit(ctx, next.ChangeSet(outcome)); err != nil {
			err = core.Unavailable(core.ModuleInteraction, "commit interaction", err)
			s.fail(op, userID, productID, t, err)
			return 0, err
		}
	}

	recordOutcome(t.String(), outcome.String())
	s.logger.Debug().
		Str("op", op).
		Str("user_id", userID).
		Str("product_id", productID).
		Stringer("type", t).
		Stringer("outcome", outcome).
		Msg("interaction applied")
	return outcome, nil
}

func (s *Service) fail(op, userID, productID string, t core.InteractionType, err error) {
	recordOutcome(t.String(), "error")
	ev := s.logger.Debug()
	if core.IsUnavailable(err) {
		ev = s.logger.Warn()
	}
	ev.Err(err).
		Str("op", op).
		Str("user_id", userID).
		Str("product_id", productID).
		Stringer("type", t).
		Msg("interaction failed")
}

// load 并行读取用户、商品与交互记录；交互不存在时 State.Interaction 为 nil。
func (s *Service) load(ctx context.Context, userID, productID string) (State, error) {
	var st State
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.repo.FindUserByID(gctx, userID)
		if err != nil {
			return wrapLoad("load user", err)
		}
		st.User = u
		return nil
	})
	g.Go(func() error {
		p, err := s.repo.FindProductByID(gctx, productID)
		if err != nil {
			return wrapLoad("load product", err)
		}
		st.Product = p
		return nil
	})
	g.Go(func() error {
		i, err := s.repo.FindInteraction(gctx, userID, productID)
		if err != nil {
			if core.IsNotFound(err) {
				return nil
			}
			return wrapLoad("load interaction", err)
		}
		st.Interaction = i
		return nil
	})
	if err := g.Wait(); err != nil {
		return State{}, err
	}
	return st, nil
}

func wrapLoad(op string, err error) error {
	if core.IsNotFound(err) {
		return err
	}
	return core.Unavailable(core.ModuleInteraction, op, err)
}

// HistoryKind 是历史查询的分区。
type HistoryKind string

const (
	HistoryFavorites HistoryKind = "favorites"
	HistoryLiked     HistoryKind = "liked"
	HistoryDisliked  HistoryKind = "disliked"
	HistoryNeutral   HistoryKind = "neutral"
	HistoryAll       HistoryKind = "all"
)

// ParseHistoryKind 解析分区名，空字符串表示 all。
func ParseHistoryKind(s string) (HistoryKind, error) {
	switch k := HistoryKind(strings.TrimSpace(s)); k {
	case "":
		return HistoryAll, nil
	case HistoryFavorites, HistoryLiked, HistoryDisliked, HistoryNeutral, HistoryAll:
		return k, nil
	default:
		return "", core.InvalidInputf(core.ModuleInteraction, "invalid history type %q", s)
	}
}

func (k HistoryKind) interactionType() (core.InteractionType, bool) {
	switch k {
	case HistoryFavorites:
		return core.InteractionFavorite, true
	case HistoryLiked:
		return core.InteractionLike, true
	case HistoryDisliked:
		return core.InteractionDislike, true
	case HistoryNeutral:
		return core.InteractionNeutral, true
	default:
		return 0, false
	}
}

// HistoryEntry 是历史列表中的一项：商品及用户对它的交互类型。
type HistoryEntry struct {
	Product *core.Product        `json:"product"`
	Type    core.InteractionType `json:"interaction_type"`
}

// History 列出用户某个分区（或全部）的商品，可按类目过滤，按商品创建时间倒序。
func (s *Service) History(ctx context.Context, userID, kind, category string) ([]HistoryEntry, error) {
	k, err := ParseHistoryKind(kind)
	if err != nil {
		return nil, err
	}
	var cat core.Category
	if strings.TrimSpace(category) != "" {
		if cat, err = core.ParseCategory(category); err != nil {
			return nil, err
		}
	}

	u, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, wrapLoad("load user", err)
	}

	var ids []string
	if t, ok := k.interactionType(); ok {
		ids = u.History.Partition(t)
	} else {
		ids = u.History.All()
	}

	products, err := s.repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, wrapLoad("load history products", err)
	}

	out := make([]HistoryEntry, 0, len(products))
	for _, p := range products {
		if cat != "" && p.Category != cat {
			continue
		}
		t, _ := u.History.TypeOf(p.ID)
		out = append(out, HistoryEntry{Product: p, Type: t})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Product.CreatedAt.After(out[j].Product.CreatedAt)
	})
	return out, nil
}
