package plugins

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry 插件注册表
type Registry struct {
	plugins map[string]Plugin
	logger  *zap.Logger
	mu      sync.RWMutex
}

// NewRegistry 创建插件注册表
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		plugins: make(map[string]Plugin),
		logger:  logger,
	}
}

// Register 注册插件
func (r *Registry) Register(plugin Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[plugin.Name()] = plugin
}

// Get 获取插件
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plugins[name]
}

// List 列出所有插件名称
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name := range r.plugins {
		names = append(names, name)
	}
	return names
}

// Invoke 调用插件操作
func (r *Registry) Invoke(ctx context.Context, pluginName, actionName string, settings, inputs map[string]any) (map[string]any, error) {
	r.mu.RLock()
	plugin, ok := r.plugins[pluginName]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("插件 '%s' 不存在", pluginName)
	}

	action, ok := plugin.Actions()[actionName]
	if !ok {
		return nil, fmt.Errorf("插件 '%s' 没有操作 '%s'", pluginName, actionName)
	}

	invocationID := uuid.NewString()
	r.logger.Debug("调用插件操作",
		zap.String("invocation_id", invocationID),
		zap.String("plugin", pluginName),
		zap.String("action", actionName),
	)

	result, err := action(ctx, settings, inputs)
	if err != nil {
		r.logger.Debug("插件操作失败",
			zap.String("invocation_id", invocationID),
			zap.Error(err),
		)
		return nil, err
	}

	r.logger.Debug("插件操作完成", zap.String("invocation_id", invocationID))
	return result, nil
}
