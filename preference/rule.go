// Package preference 实现在线偏好向量更新规则。
//
// 每次交互把用户在商品类目下的偏好向量朝商品 embedding 移动（like/favorite/neutral）
// 或远离（dislike）；clothing 与 footwear 之间以较小学习率互相传播。
// 交互被改判（recategorize）时先撤销旧类型的影响，再应用新类型。
//
// 规则是纯函数：输入向量不会被修改，结果总是新向量。
package preference

import (
	"fmt"

	"github.com/rushteam/swiperec/core"
	"github.com/rushteam/swiperec/pkg/vecmath"
)

// 默认学习参数。
const (
	DefaultLearningRate       = 0.1
	DefaultCrossCategoryRate  = 0.02 // 基础学习率的 20%
	DefaultFavoriteMultiplier = 1.5
	DefaultNeutralDamping     = 0.3
)

// ReversalMode 决定改判时如何撤销旧交互。
type ReversalMode string

const (
	// ReversalInverse 精确撤销：按旧类型正向更新的收缩系数做代数逆运算。
	ReversalInverse ReversalMode = "inverse"
	// ReversalLegacy 兼容模式：like<->dislike 互换，favorite/neutral 都按 neutral 重放。
	ReversalLegacy ReversalMode = "legacy"
)

// Config 是偏好更新规则的参数。
type Config struct {
	LearningRate       float64      `yaml:"learning_rate"`
	CrossCategoryRate  float64      `yaml:"cross_category_rate"`
	FavoriteMultiplier float64      `yaml:"favorite_multiplier"`
	NeutralDamping     float64      `yaml:"neutral_damping"`
	Reversal           ReversalMode `yaml:"reversal"`
}

// DefaultConfig 返回默认参数。
func DefaultConfig() Config {
	return Config{
		LearningRate:       DefaultLearningRate,
		CrossCategoryRate:  DefaultCrossCategoryRate,
		FavoriteMultiplier: DefaultFavoriteMultiplier,
		NeutralDamping:     DefaultNeutralDamping,
		Reversal:           ReversalInverse,
	}
}

// Validate 校验参数。精确撤销要求每种类型的收缩系数不为 0。
func (c Config) Validate() error {
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("learning_rate must be in (0, 1], got %v", c.LearningRate)
	}
	if c.CrossCategoryRate < 0 || c.CrossCategoryRate > 1 {
		return fmt.Errorf("cross_category_rate must be in [0, 1], got %v", c.CrossCategoryRate)
	}
	if c.FavoriteMultiplier <= 0 {
		return fmt.Errorf("favorite_multiplier must be positive, got %v", c.FavoriteMultiplier)
	}
	if c.NeutralDamping < 0 {
		return fmt.Errorf("neutral_damping must be non-negative, got %v", c.NeutralDamping)
	}
	switch c.Reversal {
	case ReversalInverse, ReversalLegacy:
	default:
		return fmt.Errorf("unknown reversal mode %q", c.Reversal)
	}
	r := Rule{cfg: c}
	for _, t := range core.InteractionTypes() {
		if r.contraction(t, c.LearningRate) == 0 {
			return fmt.Errorf("learning_rate %v makes %s update non-invertible", c.LearningRate, t)
		}
	}
	return nil
}

// Rule 是偏好向量更新规则。
type Rule struct {
	cfg Config
}

// WithDefaults 补齐取 0 即非法的字段，全零值等同 DefaultConfig()。
// CrossCategoryRate 与 NeutralDamping 允许为 0，原样保留。
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c == (Config{}) {
		return def
	}
	if c.LearningRate == 0 {
		c.LearningRate = def.LearningRate
	}
	if c.FavoriteMultiplier == 0 {
		c.FavoriteMultiplier = def.FavoriteMultiplier
	}
	if c.Reversal == "" {
		c.Reversal = def.Reversal
	}
	return c
}

// NewRule 创建更新规则，参数先经过 WithDefaults。
func NewRule(cfg Config) (*Rule, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, core.InvalidInputf(core.ModulePreference, "preference config: %v", err)
	}
	return &Rule{cfg: cfg}, nil
}

// MustNewRule 同 NewRule，参数非法时 panic（用于测试与默认规则）。
func MustNewRule(cfg Config) *Rule {
	r, err := NewRule(cfg)
	if err != nil {
		panic(err)
	}
	return r
}

// Config 返回规则参数。
func (r *Rule) Config() Config { return r.cfg }

// effectiveRate favorite 使用 rate*FavoriteMultiplier，其余类型使用 rate。
func (r *Rule) effectiveRate(t core.InteractionType, rate float64) float64 {
	if t == core.InteractionFavorite {
		return rate * r.cfg.FavoriteMultiplier
	}
	return rate
}

// contraction 返回一次正向更新后 (user - item) 的缩放系数 k：
// like/favorite: 1 - rate_eff；dislike: 1 + rate；neutral: 1 - damping*rate。
func (r *Rule) contraction(t core.InteractionType, rate float64) float64 {
	switch t {
	case core.InteractionLike, core.InteractionFavorite:
		return 1 - r.effectiveRate(t, rate)
	case core.InteractionDislike:
		return 1 + rate
	case core.InteractionNeutral:
		return 1 - r.cfg.NeutralDamping*rate
	default:
		return 1
	}
}

// Update 按交互类型把 user 向量朝（或远离）item 向量移动，返回新向量。
//
// user 为空时按 item 维度的零向量处理。item 为空、或维度与非空 user 不一致时
// 不做更新，返回 user 的副本。
func (r *Rule) Update(user, item core.Vector, t core.InteractionType, rate float64) core.Vector {
	if len(item) == 0 || !t.Valid() {
		return core.Vector(vecmath.Clone(user))
	}
	if len(user) == 0 {
		user = vecmath.Zero(len(item))
	}
	if len(user) != len(item) {
		return core.Vector(vecmath.Clone(user))
	}

	step := r.effectiveRate(t, rate)
	out := make(core.Vector, len(user))
	for i := range user {
		var direction float64
		switch t {
		case core.InteractionLike, core.InteractionFavorite:
			direction = item[i] - user[i]
		case core.InteractionDislike:
			direction = user[i] - item[i]
		case core.InteractionNeutral:
			direction = (item[i] - user[i]) * r.cfg.NeutralDamping
		}
		out[i] = user[i] + direction*step
	}
	return out
}

// Apply 记录一次新交互：商品类目按 LearningRate 更新，
// 伙伴类目（clothing<->footwear）按 CrossCategoryRate 更新。返回新的偏好。
func (r *Rule) Apply(prefs core.Preferences, category core.Category, item core.Vector, t core.InteractionType) core.Preferences {
	out := prefs.Clone()
	out.Set(category, r.Update(prefs.Get(category), item, t, r.cfg.LearningRate))
	if paired, ok := category.Paired(); ok {
		out.Set(paired, r.Update(prefs.Get(paired), item, t, r.cfg.CrossCategoryRate))
	}
	return out
}

// Reverse 撤销一次 old 类型的正向更新（学习率为 LearningRate）。
func (r *Rule) Reverse(v, item core.Vector, old core.InteractionType) core.Vector {
	if r.cfg.Reversal == ReversalLegacy {
		return r.Update(v, item, legacyUndo(old), r.cfg.LearningRate)
	}

	if len(item) == 0 || !old.Valid() {
		return core.Vector(vecmath.Clone(v))
	}
	if len(v) == 0 {
		v = vecmath.Zero(len(item))
	}
	if len(v) != len(item) {
		return core.Vector(vecmath.Clone(v))
	}
	k := r.contraction(old, r.cfg.LearningRate)
	out := make(core.Vector, len(v))
	for i := range v {
		out[i] = item[i] + (v[i]-item[i])/k
	}
	return out
}

// legacyUndo like<->dislike 互换；favorite 与 neutral 都按 neutral 撤销。
func legacyUndo(t core.InteractionType) core.InteractionType {
	switch t {
	case core.InteractionLike:
		return core.InteractionDislike
	case core.InteractionDislike:
		return core.InteractionLike
	default:
		return core.InteractionNeutral
	}
}

// Recategorize 把一次已记录的交互从 old 改判为 next：
// 只作用于商品自身类目，先撤销 old 再应用 next。old == next 时原样返回。
func (r *Rule) Recategorize(prefs core.Preferences, category core.Category, item core.Vector, old, next core.InteractionType) core.Preferences {
	out := prefs.Clone()
	if old == next {
		return out
	}
	v := r.Reverse(prefs.Get(category), item, old)
	out.Set(category, r.Update(v, item, next, r.cfg.LearningRate))
	return out
}
