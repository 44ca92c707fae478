package core

import "context"

// Store 是 KV 存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 领域层不依赖基础设施层
//
// 实现：
//   - store.MemoryStore（测试/开发）
//   - store.RedisStore（生产）
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// BatchGet 批量读取，不存在的 key 不出现在结果中
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)

	// BatchSet 批量写入，要求整体原子可见（一次交互记录的所有写入走这里）
	BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error

	// Close 关闭连接/释放资源
	Close() error
}

// KeyValueStore 是 Store 的扩展接口，支持有序集合，用于商品目录的类目索引。
type KeyValueStore interface {
	Store

	// ZAdd 向有序集合添加成员
	ZAdd(ctx context.Context, key string, score float64, member string) error

	// ZRange 按分数降序获取有序集合成员（分数相同按成员降序）
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// ZRangeAsc 按分数升序获取有序集合成员（分数相同按成员升序）
	ZRangeAsc(ctx context.Context, key string, start, stop int64) ([]string, error)

	// ZScore 获取成员的分数
	ZScore(ctx context.Context, key string, member string) (float64, error)

	// ZRem 从有序集合移除成员
	ZRem(ctx context.Context, key string, member string) error
}

var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrStoreNotSupported 表示操作不支持
	ErrStoreNotSupported = NewDomainError(ModuleStore, ErrorCodeNotSupported, "store: operation not supported")
)

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// SortOrder 是商品查询的排序方式。
type SortOrder int

const (
	// SortInsertion 按入库顺序（最早的在前）
	SortInsertion SortOrder = iota
	// SortNewest 按创建时间倒序（最新的在前）
	SortNewest
)

// ProductQuery 是商品目录查询条件。
type ProductQuery struct {
	// Category 目标类目（必填）
	Category Category

	// Genders 允许的商品性别；为空表示不限制
	Genders []Gender

	// ExcludeIDs 需要排除的商品 ID（用户已交互过的商品）
	ExcludeIDs []string

	// Limit 最多返回的数量；<= 0 表示不限制
	Limit int

	// Sort 排序方式
	Sort SortOrder
}

// Match 报告商品 p 是否满足查询条件（不含 Limit）。
func (q ProductQuery) Match(p *Product, excluded map[string]struct{}) bool {
	if p == nil || p.Category != q.Category {
		return false
	}
	if _, ok := excluded[p.ID]; ok {
		return false
	}
	if len(q.Genders) == 0 {
		return true
	}
	for _, g := range q.Genders {
		if p.Gender == g {
			return true
		}
	}
	return false
}

// UserRepository 是用户实体的存取接口。
type UserRepository interface {
	// FindUserByID 不存在时返回 ErrUserNotFound
	FindUserByID(ctx context.Context, id string) (*User, error)
	SaveUser(ctx context.Context, u *User) error
}

// ProductRepository 是商品目录的存取接口。
type ProductRepository interface {
	// FindProductByID 不存在时返回 ErrProductNotFound
	FindProductByID(ctx context.Context, id string) (*Product, error)
	FindProducts(ctx context.Context, q ProductQuery) ([]*Product, error)
	// FindProductsByIDs 按 ids 顺序返回存在的商品，缺失的跳过
	FindProductsByIDs(ctx context.Context, ids []string) ([]*Product, error)
	SaveProduct(ctx context.Context, p *Product) error
}

// InteractionRepository 是交互记录的存取接口。(user, product) 唯一。
type InteractionRepository interface {
	// FindInteraction 不存在时返回 ErrInteractionNotFound
	FindInteraction(ctx context.Context, userID, productID string) (*Interaction, error)
	// CreateInteraction 已存在时返回 ErrInteractionExists
	CreateInteraction(ctx context.Context, i *Interaction) error
	SaveInteraction(ctx context.Context, i *Interaction) error
}

// ChangeSet 是一次交互记录操作产生的全部写入。
// 为空的字段表示不需要写入。
type ChangeSet struct {
	User              *User
	Product           *Product
	Interaction       *Interaction
	CreateInteraction bool // true 表示 Interaction 是新建的，需要做唯一性检查
}

// Empty 报告变更集是否没有任何写入。
func (cs *ChangeSet) Empty() bool {
	return cs == nil || (cs.User == nil && cs.Product == nil && cs.Interaction == nil)
}

// Repository 组合了三个仓储，并提供整体提交，保证一次操作的写入对外原子可见。
type Repository interface {
	UserRepository
	ProductRepository
	InteractionRepository

	Commit(ctx context.Context, cs *ChangeSet) error
}
