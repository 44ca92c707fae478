package core

import "strings"

// Vector 是 embedding / 偏好向量。维度由上游编码器决定，同一类目内保持一致。
type Vector []float64

// Category 是商品类目（封闭集合）。
type Category string

const (
	CategoryClothing    Category = "clothing"
	CategoryFootwear    Category = "footwear"
	CategoryAccessories Category = "accessories"
)

// Categories 返回全部类目（固定顺序）。
func Categories() []Category {
	return []Category{CategoryClothing, CategoryFootwear, CategoryAccessories}
}

// ParseCategory 解析类目字符串，未知类目返回 INVALID_INPUT。
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.TrimSpace(s)); c {
	case CategoryClothing, CategoryFootwear, CategoryAccessories:
		return c, nil
	default:
		return "", InvalidInputf(ModuleRecommend, "invalid category %q", s)
	}
}

// Paired 返回跨类目联动的伙伴类目：clothing <-> footwear。
// accessories 没有伙伴，既不传播也不接收。
func (c Category) Paired() (Category, bool) {
	switch c {
	case CategoryClothing:
		return CategoryFootwear, true
	case CategoryFootwear:
		return CategoryClothing, true
	default:
		return "", false
	}
}

func (c Category) String() string { return string(c) }

// Gender 是用户/商品的性别属性。
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = "unisex"
)

// ParseGender 解析性别，空字符串按 unisex 处理（与用户默认值一致）。
func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.TrimSpace(s)); g {
	case "":
		return GenderUnisex, nil
	case GenderMale, GenderFemale, GenderUnisex:
		return g, nil
	default:
		return "", InvalidInputf(ModuleStore, "invalid gender %q", s)
	}
}

// Audience 返回推荐时允许的商品性别集合。
// unisex 用户不做限制（返回 nil）；其他用户看到本性别 + unisex 商品。
func (g Gender) Audience() []Gender {
	if g == GenderUnisex || g == "" {
		return nil
	}
	return []Gender{g, GenderUnisex}
}

func (g Gender) String() string { return string(g) }

// InteractionType 是滑动交互类型（封闭的标签变体）。
type InteractionType int

const (
	InteractionFavorite InteractionType = iota + 1
	InteractionLike
	InteractionDislike
	InteractionNeutral
)

// InteractionTypes 返回全部交互类型（固定顺序，与 History 分区顺序一致）。
func InteractionTypes() []InteractionType {
	return []InteractionType{InteractionFavorite, InteractionLike, InteractionDislike, InteractionNeutral}
}

// ParseInteractionType 解析交互类型字符串，未知类型返回 INVALID_INPUT。
func ParseInteractionType(s string) (InteractionType, error) {
	switch strings.TrimSpace(s) {
	case "favorite":
		return InteractionFavorite, nil
	case "like":
		return InteractionLike, nil
	case "dislike":
		return InteractionDislike, nil
	case "neutral":
		return InteractionNeutral, nil
	default:
		return 0, InvalidInputf(ModuleInteraction, "invalid interaction type %q", s)
	}
}

// Valid 报告 t 是否为已知的交互类型。
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionFavorite, InteractionLike, InteractionDislike, InteractionNeutral:
		return true
	default:
		return false
	}
}

func (t InteractionType) String() string {
	switch t {
	case InteractionFavorite:
		return "favorite"
	case InteractionLike:
		return "like"
	case InteractionDislike:
		return "dislike"
	case InteractionNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// MarshalText 以字符串形式序列化（JSON/YAML 友好）。
func (t InteractionType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, InvalidInputf(ModuleInteraction, "invalid interaction type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText 从字符串反序列化。
func (t *InteractionType) UnmarshalText(b []byte) error {
	parsed, err := ParseInteractionType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
