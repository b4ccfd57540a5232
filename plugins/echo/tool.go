package echo

import (
	"context"
	"fmt"

	"github.com/weibaohui/difytool-go/manifest"
	"github.com/weibaohui/difytool-go/plugins"
	"go.uber.org/zap"
)

// Plugin 最小化的回声插件，用于本地调试插件宿主的调用链路
type Plugin struct {
	manifest *manifest.Plugin
	logger   *zap.Logger
}

// NewPlugin 创建回声插件
func NewPlugin(m *manifest.Plugin, logger *zap.Logger) *Plugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Plugin{manifest: m, logger: logger}
}

// Name 返回插件名称
func (p *Plugin) Name() string {
	return "echo"
}

// Manifest 返回插件描述
func (p *Plugin) Manifest() *manifest.Plugin {
	return p.manifest
}

// Actions 返回插件暴露的操作
func (p *Plugin) Actions() map[string]plugins.ActionFunc {
	return map[string]plugins.ActionFunc{
		"echo": p.Echo,
	}
}

// Echo 原样返回输入文本
func (p *Plugin) Echo(ctx context.Context, settings, inputs map[string]any) (map[string]any, error) {
	var text string
	if value, ok := inputs["text"]; ok && value != nil {
		text = fmt.Sprint(value)
	}

	resultText := "echo: (no text)"
	if text != "" {
		resultText = "echo: " + text
	}

	return map[string]any{
		"type": "text",
		"text": resultText,
		"metadata": map[string]any{
			"echoed": true,
		},
	}, nil
}
