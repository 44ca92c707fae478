// Package feast 从 Feast 在线特征库读取商品 embedding。
//
// 商品入库时可能还没有 embedding（编码器异步产出），EmbeddingSource 在读取商品时
// 按需从 Feast 补齐，Feast 不可用时降级为原样返回。
package feast

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/swiperec/core"
)

// 默认值
const (
	DefaultPort      = 6565
	DefaultEntityKey = "product_id"
	DefaultTimeout   = 500 * time.Millisecond
)

// Config 是 Feast 接入配置。
type Config struct {
	Enabled bool `yaml:"enabled"`

	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Project string `yaml:"project"`

	// Feature 是 embedding 特征引用，例如 "product_embeddings:embedding"
	Feature string `yaml:"feature"`

	// EntityKey 是商品实体列名
	EntityKey string `yaml:"entity_key"`

	// Token 非空时使用静态 Token 认证
	Token string `yaml:"token"`

	// Timeout 单次请求超时
	Timeout time.Duration `yaml:"timeout"`

	Breaker BreakerConfig `yaml:"breaker"`
}

// BreakerConfig 是 Feast 调用的熔断配置。
type BreakerConfig struct {
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	OpenTimeout      time.Duration `yaml:"open_timeout"`
	FailureThreshold uint32        `yaml:"failure_threshold"`
}

// ApplyDefaults 填充零值字段。
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.EntityKey == "" {
		c.EntityKey = DefaultEntityKey
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Breaker.MaxRequests == 0 {
		c.Breaker.MaxRequests = 1
	}
	if c.Breaker.Interval <= 0 {
		c.Breaker.Interval = time.Minute
	}
	if c.Breaker.OpenTimeout <= 0 {
		c.Breaker.OpenTimeout = 30 * time.Second
	}
	if c.Breaker.FailureThreshold == 0 {
		c.Breaker.FailureThreshold = 5
	}
}

// Validate 校验启用时的必填项。
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Host == "" {
		return core.InvalidInputf(core.ModuleFeature, "feast.host is required")
	}
	if c.Project == "" {
		return core.InvalidInputf(core.ModuleFeature, "feast.project is required")
	}
	if c.Feature == "" {
		return core.InvalidInputf(core.ModuleFeature, "feast.feature is required")
	}
	return nil
}

// Endpoint 返回 host:port。
func (c Config) Endpoint() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Fetcher 按商品 ID 批量读取 embedding。
// 结果中不包含没有特征值的商品。
type Fetcher interface {
	FetchEmbeddings(ctx context.Context, productIDs []string) (map[string]core.Vector, error)
}
