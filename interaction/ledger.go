// Package interaction 维护 (user, product) 交互台账：唯一性、商品计数、用户历史分区，
// 并在每次状态转移时驱动偏好向量更新。
package interaction

import (
	"time"

	"github.com/rushteam/swiperec/core"
	"github.com/rushteam/swiperec/preference"
)

// Outcome 是一次台账操作的结果。重复记录与类型未变都是显式的 no-op，不是错误。
type Outcome int

const (
	// OutcomeCreated 首次记录
	OutcomeCreated Outcome = iota + 1
	// OutcomeAlreadyRecorded 已存在相同类型的交互
	OutcomeAlreadyRecorded
	// OutcomeRecategorized 交互类型被改判
	OutcomeRecategorized
	// OutcomeNoChange 改判为相同类型
	OutcomeNoChange
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyRecorded:
		return "already_recorded"
	case OutcomeRecategorized:
		return "recategorized"
	case OutcomeNoChange:
		return "no_change"
	default:
		return "unknown"
	}
}

// Changed 报告该结果是否产生了写入。
func (o Outcome) Changed() bool {
	return o == OutcomeCreated || o == OutcomeRecategorized
}

// State 是一次台账操作涉及的全部实体。Interaction 为 nil 表示尚无交互。
type State struct {
	User        *core.User
	Product     *core.Product
	Interaction *core.Interaction
}

func (s State) clone() State {
	return State{
		User:        s.User.Clone(),
		Product:     s.Product.Clone(),
		Interaction: s.Interaction.Clone(),
	}
}

// ChangeSet 把状态转移结果转换为需要提交的写入。
func (s State) ChangeSet(o Outcome) *core.ChangeSet {
	if !o.Changed() {
		return &core.ChangeSet{}
	}
	return &core.ChangeSet{
		User:              s.User,
		Product:           s.Product,
		Interaction:       s.Interaction,
		CreateInteraction: o == OutcomeCreated,
	}
}

// Ledger 是纯状态转移逻辑，不做任何 I/O。输入状态不会被修改。
type Ledger struct {
	rule *preference.Rule
	now  func() time.Time
}

func NewLedger(rule *preference.Rule) *Ledger {
	return &Ledger{rule: rule, now: time.Now}
}

func (l *Ledger) check(st State, t core.InteractionType) error {
	if !t.Valid() {
		return core.InvalidInputf(core.ModuleInteraction, "invalid interaction type %d", int(t))
	}
	if st.User == nil {
		return core.ErrUserNotFound
	}
	if st.Product == nil {
		return core.ErrProductNotFound
	}
	return nil
}

// Record 记录一次交互。
//   - 已存在相同类型：OutcomeAlreadyRecorded，状态不变
//   - 已存在不同类型：按改判处理
//   - 不存在：新建交互，计数加一，移入历史分区，并更新偏好向量（含跨类目传播）
func (l *Ledger) Record(st State, t core.InteractionType) (State, Outcome, error) {
	if err := l.check(st, t); err != nil {
		return st, 0, err
	}
	if st.Interaction != nil {
		if st.Interaction.Type == t {
			return st, OutcomeAlreadyRecorded, nil
		}
		return l.Recategorize(st, t)
	}

	next := st.clone()
	now := l.now()
	next.Interaction = &core.Interaction{
		UserID:    next.User.ID,
		ProductID: next.Product.ID,
		Type:      t,
		Category:  next.Product.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	next.Product.Counts.Inc(t)
	next.User.History.Move(next.Product.ID, t)
	next.User.Preferences = l.rule.Apply(next.User.Preferences, next.Product.Category, next.Product.Embedding, t)
	return next, OutcomeCreated, nil
}

// Recategorize 修改已有交互的类型：移动历史分区，旧类型计数减一、新类型加一，
// 在商品主类目上先撤销旧类型再应用新类型。
func (l *Ledger) Recategorize(st State, t core.InteractionType) (State, Outcome, error) {
	if err := l.check(st, t); err != nil {
		return st, 0, err
	}
	if st.Interaction == nil {
		return st, 0, core.ErrInteractionNotFound
	}
	old := st.Interaction.Type
	if old == t {
		return st, OutcomeNoChange, nil
	}

	next := st.clone()
	// 以交互记录上冗余的类目为准，商品改类目后仍撤销到原向量上
	category := next.Interaction.Category
	if category == "" {
		category = next.Product.Category
	}
	next.Interaction.Type = t
	next.Interaction.UpdatedAt = l.now()
	next.Product.Counts.Dec(old)
	next.Product.Counts.Inc(t)
	next.User.History.Move(next.Product.ID, t)
	next.User.Preferences = l.rule.Recategorize(next.User.Preferences, category, next.Product.Embedding, old, t)
	return next, OutcomeRecategorized, nil
}
