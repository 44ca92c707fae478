package swiperec

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/swiperec/config"
	"github.com/rushteam/swiperec/config/builders"
	"github.com/rushteam/swiperec/core"
	"github.com/rushteam/swiperec/feast"
	"github.com/rushteam/swiperec/interaction"
	"github.com/rushteam/swiperec/pkg/logging"
	"github.com/rushteam/swiperec/preference"
	"github.com/rushteam/swiperec/recommend"
	"github.com/rushteam/swiperec/store"
)

// System 是按配置组装好的存储、交互服务与推荐引擎。
type System struct {
	Config       *config.Config
	Logger       zerolog.Logger
	Store        core.KeyValueStore
	Repo         core.Repository
	Interactions *interaction.Service
	Recommender  *recommend.Engine

	feast *feast.GrpcClient
}

// Open 打开存储并组装各组件。feast.enabled 时商品读取经 EmbeddingSource 补齐 embedding。
func Open(ctx context.Context, cfg *config.Config) (*System, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	logger := logging.New(cfg.Log)

	kv, err := store.Open(ctx, cfg.Store.Options())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	builders.BindStore(kv)

	s := &System{Config: cfg, Logger: logger, Store: kv}
	s.Repo = store.NewRepository(kv, store.WithKeyPrefix(cfg.Store.KeyPrefix))

	if cfg.Feast.Enabled {
		client, err := feast.NewGrpcClient(cfg.Feast)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("connect feast: %w", err)
		}
		s.feast = client
		s.Repo = feast.NewEmbeddingSource(s.Repo, client, cfg.Feast.Breaker, feast.WithLogger(logger))
	}

	rule, err := preference.NewRule(cfg.Preference)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Interactions = interaction.NewService(s.Repo, rule, interaction.WithLogger(logger))

	s.Recommender, err = recommend.NewEngine(s.Repo, s.Repo, cfg.Recommend,
		recommend.WithLogger(logger),
		recommend.WithNodeFactory(config.DefaultFactory()),
	)
	if err != nil {
		s.Close()
		return nil, err
	}

	logger.Info().
		Str("store", kv.Name()).
		Bool("feast", cfg.Feast.Enabled).
		Str("reversal", string(cfg.Preference.Reversal)).
		Msg("swiperec ready")
	return s, nil
}

// Close 释放存储与 Feast 连接。
func (s *System) Close() {
	if s.feast != nil {
		_ = s.feast.Close()
	}
	if s.Store != nil {
		_ = s.Store.Close()
	}
}
