package core

// 推荐数量限制。调用方（HTTP 层）负责截断，核心层再兜底一次。
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// ClampLimit 将 limit 截断到 [1, ceiling]；limit <= 0 时使用 DefaultLimit。
func ClampLimit(limit, ceiling int) int {
	if ceiling <= 0 {
		ceiling = MaxLimit
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > ceiling {
		limit = ceiling
	}
	return limit
}
