package core

import (
	"time"

	"github.com/rushteam/swiperec/pkg/utils"
)

// Product 是商品目录中的一条记录，embedding 由上游神经网络编码器产出。
type Product struct {
	ID          string            `json:"id"`
	OriginalID  string            `json:"original_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	ImageURL    string            `json:"image_url"`
	Price       float64           `json:"price"`
	Category    Category          `json:"category"`
	Gender      Gender            `json:"gender"`
	Embedding   Vector            `json:"embedding"`
	Counts      InteractionCounts `json:"interaction_counts"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Clone 深拷贝商品，避免在核心逻辑中修改调用方持有的数据。
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Embedding != nil {
		cp.Embedding = append(Vector(nil), p.Embedding...)
	}
	return &cp
}

// InteractionCounts 是商品维度的交互计数。
// 各计数之和等于与该商品交互过的去重用户数。
type InteractionCounts struct {
	Favorites int `json:"favorites"`
	Likes     int `json:"likes"`
	Dislikes  int `json:"dislikes"`
	Neutral   int `json:"neutral"`
}

func (c *InteractionCounts) slot(t InteractionType) *int {
	switch t {
	case InteractionFavorite:
		return &c.Favorites
	case InteractionLike:
		return &c.Likes
	case InteractionDislike:
		return &c.Dislikes
	case InteractionNeutral:
		return &c.Neutral
	default:
		return nil
	}
}

// Inc 对类型 t 的计数加一。
func (c *InteractionCounts) Inc(t InteractionType) {
	if p := c.slot(t); p != nil {
		*p++
	}
}

// Dec 对类型 t 的计数减一，下限为 0。
func (c *InteractionCounts) Dec(t InteractionType) {
	if p := c.slot(t); p != nil && *p > 0 {
		*p--
	}
}

// Get 返回类型 t 的计数。
func (c InteractionCounts) Get(t InteractionType) int {
	if p := c.slot(t); p != nil {
		return *p
	}
	return 0
}

// Total 返回所有类型计数之和。
func (c InteractionCounts) Total() int {
	return c.Favorites + c.Likes + c.Dislikes + c.Neutral
}

// Item 是推荐链路中的统一承载结构：商品、分数、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID      string
	Score   float64
	Product *Product
	Labels  map[string]utils.Label
}

func NewItem(p *Product) *Item {
	it := &Item{
		Product: p,
		Labels:  make(map[string]utils.Label),
	}
	if p != nil {
		it.ID = p.ID
	}
	return it
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Products 提取 items 中的商品（跳过空项）。
func Products(items []*Item) []*Product {
	out := make([]*Product, 0, len(items))
	for _, it := range items {
		if it == nil || it.Product == nil {
			continue
		}
		out = append(out, it.Product)
	}
	return out
}
