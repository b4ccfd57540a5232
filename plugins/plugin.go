package plugins

import (
	"context"

	"github.com/weibaohui/difytool-go/manifest"
)

// ActionFunc 插件操作入口
// settings 为宿主下发的配置，inputs 为单次调用的输入
type ActionFunc func(ctx context.Context, settings, inputs map[string]any) (map[string]any, error)

// Plugin 工具插件接口
type Plugin interface {
	Name() string
	Manifest() *manifest.Plugin
	Actions() map[string]ActionFunc
}
