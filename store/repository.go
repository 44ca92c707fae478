package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rushteam/swiperec/core"
)

// Repository 是构建在 KeyValueStore 之上的文档仓储，实现 core.Repository。
//
// 键空间（均带可选前缀）：
//
//	user:{id}                       用户文档
//	product:{id}                    商品文档
//	interaction:{user}:{product}    交互记录
//	idx:product:category:{category} 类目索引（zset，score = CreatedAt 毫秒）
//
// 索引放在独立的 idx: 命名空间，任意商品 ID 都不会与之冲突。
type Repository struct {
	kv     core.KeyValueStore
	prefix string
	now    func() time.Time
	newID  func() string

	// commit 串行化本进程内的 Commit，保证"检查不存在 + 写入"不被交错
	commit sync.Mutex
}

// RepositoryOption 配置 Repository。
type RepositoryOption func(*Repository)

// WithKeyPrefix 为所有 key 加前缀（多个环境共用一个 Redis 时使用）。
func WithKeyPrefix(prefix string) RepositoryOption {
	return func(r *Repository) { r.prefix = prefix }
}

// WithClock 替换时间来源（测试用）。
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator 替换 ID 生成器，默认 uuid v4。
func WithIDGenerator(gen func() string) RepositoryOption {
	return func(r *Repository) { r.newID = gen }
}

func NewRepository(kv core.KeyValueStore, opts ...RepositoryOption) *Repository {
	r := &Repository{
		kv:    kv,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ core.Repository = (*Repository)(nil)

func (r *Repository) userKey(id string) string    { return r.prefix + "user:" + id }
func (r *Repository) productKey(id string) string { return r.prefix + "product:" + id }
func (r *Repository) categoryKey(c core.Category) string {
	return r.prefix + "idx:product:category:" + string(c)
}
func (r *Repository) interactionKey(userID, productID string) string {
	return r.prefix + "interaction:" + userID + ":" + productID
}

// ---------- users ----------

func (r *Repository) FindUserByID(ctx context.Context, id string) (*core.User, error) {
	var u core.User
	if err := r.load(ctx, r.userKey(id), &u, core.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &u, nil
}

// SaveUser 写入用户；ID 为空时分配 uuid，性别为空时按 unisex 处理。
func (r *Repository) SaveUser(ctx context.Context, u *core.User) error {
	if u == nil {
		return core.InvalidInputf(core.ModuleStore, "user is nil")
	}
	if u.ID == "" {
		u.ID = r.newID()
	}
	if u.Gender == "" {
		u.Gender = core.GenderUnisex
	}
	r.touch(&u.CreatedAt, &u.UpdatedAt)
	return r.save(ctx, r.userKey(u.ID), u)
}

// ---------- products ----------

func (r *Repository) FindProductByID(ctx context.Context, id string) (*core.Product, error) {
	var p core.Product
	if err := r.load(ctx, r.productKey(id), &p, core.ErrProductNotFound); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) FindProductsByIDs(ctx context.Context, ids []string) ([]*core.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.productKey(id)
	}
	vals, err := r.kv.BatchGet(ctx, keys)
	if err != nil {
		return nil, core.Unavailable(core.ModuleStore, "batch get products", err)
	}
	out := make([]*core.Product, 0, len(ids))
	for _, k := range keys {
		raw, ok := vals[k]
		if !ok {
			continue
		}
		var p core.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("store: decode %s: %w", k, err)
		}
		out = append(out, &p)
	}
	return out, nil
}

// SaveProduct 写入商品并维护类目索引；类目变化时从旧索引移除。
func (r *Repository) SaveProduct(ctx context.Context, p *core.Product) error {
	if p == nil {
		return core.InvalidInputf(core.ModuleStore, "product is nil")
	}
	if _, err := core.ParseCategory(string(p.Category)); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = r.newID()
	}
	if p.Gender == "" {
		p.Gender = core.GenderUnisex
	}
	r.touch(&p.CreatedAt, &p.UpdatedAt)

	if old, err := r.FindProductByID(ctx, p.ID); err == nil && old.Category != p.Category {
		if err := r.kv.ZRem(ctx, r.categoryKey(old.Category), p.ID); err != nil {
			return core.Unavailable(core.ModuleStore, "remove category index", err)
		}
	}
	if err := r.save(ctx, r.productKey(p.ID), p); err != nil {
		return err
	}
	score := float64(p.CreatedAt.UnixMilli())
	if err := r.kv.ZAdd(ctx, r.categoryKey(p.Category), score, p.ID); err != nil {
		return core.Unavailable(core.ModuleStore, "add category index", err)
	}
	return nil
}

// FindProducts 按类目索引分页扫描，过滤性别与排除集合，直到凑满 Limit。
func (r *Repository) FindProducts(ctx context.Context, q core.ProductQuery) ([]*core.Product, error) {
	excluded := make(map[string]struct{}, len(q.ExcludeIDs))
	for _, id := range q.ExcludeIDs {
		excluded[id] = struct{}{}
	}

	page := int64(64)
	if q.Limit > 0 && int64(q.Limit)*2 > page {
		page = int64(q.Limit) * 2
	}

	var out []*core.Product
	for start := int64(0); ; start += page {
		ids, err := r.scanCategory(ctx, q, start, start+page-1)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return out, nil
		}
		products, err := r.FindProductsByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			if !q.Match(p, excluded) {
				continue
			}
			out = append(out, p)
			if q.Limit > 0 && len(out) >= q.Limit {
				return out, nil
			}
		}
		if int64(len(ids)) < page {
			return out, nil
		}
	}
}

func (r *Repository) scanCategory(ctx context.Context, q core.ProductQuery, start, stop int64) ([]string, error) {
	key := r.categoryKey(q.Category)
	var (
		ids []string
		err error
	)
	if q.Sort == core.SortNewest {
		ids, err = r.kv.ZRange(ctx, key, start, stop)
	} else {
		ids, err = r.kv.ZRangeAsc(ctx, key, start, stop)
	}
	if err != nil {
		return nil, core.Unavailable(core.ModuleStore, "scan category index", err)
	}
	return ids, nil
}

// ---------- interactions ----------

func (r *Repository) FindInteraction(ctx context.Context, userID, productID string) (*core.Interaction, error) {
	var i core.Interaction
	if err := r.load(ctx, r.interactionKey(userID, productID), &i, core.ErrInteractionNotFound); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *Repository) CreateInteraction(ctx context.Context, i *core.Interaction) error {
	return r.Commit(ctx, &core.ChangeSet{Interaction: i, CreateInteraction: true})
}

func (r *Repository) SaveInteraction(ctx context.Context, i *core.Interaction) error {
	return r.Commit(ctx, &core.ChangeSet{Interaction: i})
}

// ---------- commit ----------

// Commit 将一次操作的全部写入编码后通过一次 BatchSet 提交。
// CreateInteraction 为 true 时先检查唯一性，已存在返回 ErrInteractionExists。
func (r *Repository) Commit(ctx context.Context, cs *core.ChangeSet) error {
	if cs.Empty() {
		return nil
	}

	r.commit.Lock()
	defer r.commit.Unlock()

	kvs := make(map[string][]byte, 3)
	if i := cs.Interaction; i != nil {
		if i.UserID == "" || i.ProductID == "" {
			return core.InvalidInputf(core.ModuleStore, "interaction requires user and product ids")
		}
		key := r.interactionKey(i.UserID, i.ProductID)
		if cs.CreateInteraction {
			_, err := r.kv.Get(ctx, key)
			switch {
			case err == nil:
				return core.ErrInteractionExists
			case !core.IsStoreNotFound(err):
				return core.Unavailable(core.ModuleStore, "check interaction", err)
			}
		}
		r.touch(&i.CreatedAt, &i.UpdatedAt)
		if err := encodeInto(kvs, key, i); err != nil {
			return err
		}
	}
	if u := cs.User; u != nil {
		u.UpdatedAt = r.now()
		if err := encodeInto(kvs, r.userKey(u.ID), u); err != nil {
			return err
		}
	}
	if p := cs.Product; p != nil {
		p.UpdatedAt = r.now()
		if err := encodeInto(kvs, r.productKey(p.ID), p); err != nil {
			return err
		}
	}

	if err := r.kv.BatchSet(ctx, kvs); err != nil {
		return core.Unavailable(core.ModuleStore, "commit", err)
	}
	return nil
}

// ---------- helpers ----------

func (r *Repository) touch(created, updated *time.Time) {
	now := r.now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func (r *Repository) load(ctx context.Context, key string, v any, notFound error) error {
	raw, err := r.kv.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return notFound
		}
		return core.Unavailable(core.ModuleStore, "get "+key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("store: decode %s: %w", key, err)
	}
	return nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, raw); err != nil {
		return core.Unavailable(core.ModuleStore, "set "+key, err)
	}
	return nil
}

func encodeInto(kvs map[string][]byte, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	kvs[key] = raw
	return nil
}
