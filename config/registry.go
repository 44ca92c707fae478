package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/swiperec/pipeline"
)

// NodeBuilder 与 pipeline.NodeBuilder 一致：根据 config 构建 Node。
type NodeBuilder = pipeline.NodeBuilder

var (
	registry   = make(map[string]NodeBuilder)
	registryMu sync.RWMutex
)

// Register 注册（或覆盖）一种 Node 的构建逻辑，通常在 init 中调用。
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[typeName] = builder
}

// SupportedTypes 返回已注册的 Node 类型（排序）。
func SupportedTypes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 返回包含当前全部注册类型的 NodeFactory 快照。
func DefaultFactory() *pipeline.NodeFactory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range registry {
		f.Register(typeName, builder)
	}
	return f
}

// ValidateNodeConfigs 校验所有 node 类型均已注册。
func ValidateNodeConfigs(ncs []pipeline.NodeConfig) error {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for i, nc := range ncs {
		if nc.Type == "" {
			return fmt.Errorf("node %d: type is required", i)
		}
		if _, ok := registry[nc.Type]; !ok {
			types := make([]string, 0, len(registry))
			for t := range registry {
				types = append(types, t)
			}
			sort.Strings(types)
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, types)
		}
	}
	return nil
}
