package core

import "time"

// Interaction 是 (user, product) 的唯一交互记录。
// Category 在创建时从商品冗余过来，便于按类目过滤。
type Interaction struct {
	UserID    string          `json:"user_id"`
	ProductID string          `json:"product_id"`
	Type      InteractionType `json:"type"`
	Category  Category        `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Clone 返回交互记录的副本。
func (i *Interaction) Clone() *Interaction {
	if i == nil {
		return nil
	}
	cp := *i
	return &cp
}

// History 是用户的交互历史，按交互类型分为四个有序分区。
// 同一个商品 ID 任意时刻只出现在一个分区中。
type History struct {
	Favorites []string `json:"favorites"`
	Liked     []string `json:"liked"`
	Disliked  []string `json:"disliked"`
	Neutral   []string `json:"neutral"`
}

func (h *History) partition(t InteractionType) *[]string {
	switch t {
	case InteractionFavorite:
		return &h.Favorites
	case InteractionLike:
		return &h.Liked
	case InteractionDislike:
		return &h.Disliked
	case InteractionNeutral:
		return &h.Neutral
	default:
		return nil
	}
}

// Partition 返回类型 t 对应分区的副本。
func (h History) Partition(t InteractionType) []string {
	p := h.partition(t)
	if p == nil {
		return nil
	}
	return append([]string(nil), (*p)...)
}

// Remove 从全部四个分区中移除 id。
func (h *History) Remove(id string) {
	for _, t := range InteractionTypes() {
		p := h.partition(t)
		kept := (*p)[:0]
		for _, v := range *p {
			if v != id {
				kept = append(kept, v)
			}
		}
		*p = kept
	}
}

// Move 先从全部分区移除 id，再追加到类型 t 的分区末尾。
func (h *History) Move(id string, t InteractionType) {
	h.Remove(id)
	if p := h.partition(t); p != nil {
		*p = append(*p, id)
	}
}

// TypeOf 返回 id 所在分区的交互类型。
func (h History) TypeOf(id string) (InteractionType, bool) {
	for _, t := range InteractionTypes() {
		for _, v := range *h.partition(t) {
			if v == id {
				return t, true
			}
		}
	}
	return 0, false
}

// Contains 报告 id 是否出现在任一分区中。
func (h History) Contains(id string) bool {
	_, ok := h.TypeOf(id)
	return ok
}

// All 返回四个分区的并集（favorites, liked, disliked, neutral 顺序）。
func (h History) All() []string {
	out := make([]string, 0, len(h.Favorites)+len(h.Liked)+len(h.Disliked)+len(h.Neutral))
	out = append(out, h.Favorites...)
	out = append(out, h.Liked...)
	out = append(out, h.Disliked...)
	out = append(out, h.Neutral...)
	return out
}

// Set 返回四个分区并集的集合形式，便于过滤。
func (h History) Set() map[string]struct{} {
	all := h.All()
	set := make(map[string]struct{}, len(all))
	for _, id := range all {
		set[id] = struct{}{}
	}
	return set
}

// Clone 深拷贝历史。
func (h History) Clone() History {
	return History{
		Favorites: append([]string(nil), h.Favorites...),
		Liked:     append([]string(nil), h.Liked...),
		Disliked:  append([]string(nil), h.Disliked...),
		Neutral:   append([]string(nil), h.Neutral...),
	}
}
