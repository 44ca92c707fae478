// Package config 加载 swiperec 的 YAML 配置，并维护配置驱动的 Node 注册表。
//
// 使用配置中的 recommend.post_nodes 时，需在入口处
// import _ "github.com/rushteam/swiperec/config/builders" 以注册内置 Node。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/swiperec/feast"
	"github.com/rushteam/swiperec/pkg/dsl"
	"github.com/rushteam/swiperec/pkg/logging"
	"github.com/rushteam/swiperec/preference"
	"github.com/rushteam/swiperec/recommend"
	"github.com/rushteam/swiperec/store"
)

// Config 是应用配置。
type Config struct {
	Log        logging.Config    `yaml:"log"`
	Store      StoreConfig       `yaml:"store"`
	Preference preference.Config `yaml:"preference"`
	Recommend  recommend.Config  `yaml:"recommend"`
	Feast      feast.Config      `yaml:"feast"`
}

// StoreConfig 是 KV 存储配置。
type StoreConfig struct {
	Backend   store.Backend `yaml:"backend"` // memory / redis
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
}

// Options 转为 store.Open 的参数。
func (s StoreConfig) Options() store.Options {
	return store.Options{Backend: s.Backend, Addr: s.Addr, Password: s.Password, DB: s.DB}
}

// Default 返回全部默认值的配置（内存存储）。
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load 读取并解析配置文件，填充默认值后校验。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse 在 Default() 之上解析 YAML 内容，未出现的 key 保留默认值，显式写 0 的保持 0。
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults 填充零值字段。
func ApplyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = logging.FormatJSON
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = store.BackendMemory
	}
	if cfg.Store.Backend == store.BackendRedis && cfg.Store.Addr == "" {
		cfg.Store.Addr = "localhost:6379"
	}
	if cfg.Store.KeyPrefix == "" {
		cfg.Store.KeyPrefix = "swiperec:"
	}

	cfg.Preference = cfg.Preference.WithDefaults()

	rdef := recommend.DefaultConfig()
	r := &cfg.Recommend
	if r.DefaultLimit <= 0 {
		r.DefaultLimit = rdef.DefaultLimit
	}
	if r.MaxLimit <= 0 {
		r.MaxLimit = rdef.MaxLimit
	}
	if r.Oversample <= 0 {
		r.Oversample = rdef.Oversample
	}
	if r.PrimaryWeight == 0 && r.SecondaryWeight == 0 {
		r.PrimaryWeight, r.SecondaryWeight = rdef.PrimaryWeight, rdef.SecondaryWeight
	}

	if cfg.Feast.Enabled {
		cfg.Feast.ApplyDefaults()
	}
}

// Validate 校验各段配置。post_nodes 中的类型必须已注册。
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case store.BackendMemory, store.BackendRedis:
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	if err := c.Preference.Validate(); err != nil {
		return fmt.Errorf("preference: %w", err)
	}

	r := c.Recommend
	if r.DefaultLimit > r.MaxLimit {
		return fmt.Errorf("recommend: default_limit %d exceeds max_limit %d", r.DefaultLimit, r.MaxLimit)
	}
	if r.PrimaryWeight < 0 || r.SecondaryWeight < 0 {
		return fmt.Errorf("recommend: weights must be non-negative")
	}
	if r.CandidateFilter != "" {
		if _, err := dsl.Compile(r.CandidateFilter); err != nil {
			return fmt.Errorf("recommend.candidate_filter: %w", err)
		}
	}
	if err := ValidateNodeConfigs(r.PostNodes); err != nil {
		return fmt.Errorf("recommend.post_nodes: %w", err)
	}

	if err := c.Feast.Validate(); err != nil {
		return fmt.Errorf("feast: %w", err)
	}
	return nil
}
