package helloworld

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/weibaohui/difytool-go/manifest"
	"github.com/weibaohui/difytool-go/plugins"
	"go.uber.org/zap"
)

// ValidationError 输入值不是期望的形式时返回的错误
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// supportedLanguages 语言代码到问候模板的映射
var supportedLanguages = map[string]string{
	"ja": "こんにちは、%s!",
	"en": "Hello, %s!",
}

// Plugin HelloWorld 教程插件
type Plugin struct {
	manifest *manifest.Plugin
	logger   *zap.Logger
}

// NewPlugin 创建 HelloWorld 插件
func NewPlugin(m *manifest.Plugin, logger *zap.Logger) *Plugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Plugin{manifest: m, logger: logger}
}

// Name 返回插件名称
func (p *Plugin) Name() string {
	return "helloworld"
}

// Manifest 返回插件描述
func (p *Plugin) Manifest() *manifest.Plugin {
	return p.manifest
}

// Actions 返回插件暴露的操作
func (p *Plugin) Actions() map[string]plugins.ActionFunc {
	return map[string]plugins.ActionFunc{
		"sayHello": p.SayHello,
	}
}

// SayHello 生成问候语
func (p *Plugin) SayHello(ctx context.Context, settings, inputs map[string]any) (map[string]any, error) {
	p.logger.Debug("helloworld sayHello 被调用", zap.Any("inputs", inputs))

	name, err := normalizeName(inputs["name"])
	if err != nil {
		return nil, err
	}

	language, err := normalizeLanguage(inputs["language"])
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf(supportedLanguages[language], name)

	p.logger.Info("helloworld sayHello 完成",
		zap.String("message", message),
		zap.String("language", language),
		zap.String("name", name),
	)

	return map[string]any{
		"message": message,
		"raw": map[string]any{
			"language": language,
			"name":     name,
		},
	}, nil
}

// normalizeName 归一化 name 输入，缺省为 World
func normalizeName(value any) (string, error) {
	if value == nil {
		return "World", nil
	}
	name, ok := value.(string)
	if !ok {
		return "", &ValidationError{Message: "name 必须是字符串"}
	}
	normalized := strings.TrimSpace(name)
	if normalized == "" {
		return "World", nil
	}
	return normalized, nil
}

// normalizeLanguage 归一化 language 输入，缺省为 ja
func normalizeLanguage(value any) (string, error) {
	if value == nil {
		return "ja", nil
	}
	language, ok := value.(string)
	if !ok {
		return "", &ValidationError{Message: "language 必须是字符串"}
	}
	language = strings.ToLower(language)
	if _, ok := supportedLanguages[language]; !ok {
		var supported []string
		for code := range supportedLanguages {
			supported = append(supported, code)
		}
		sort.Strings(supported)
		return "", &ValidationError{Message: fmt.Sprintf("language 必须是 %s 之一", strings.Join(supported, ", "))}
	}
	return language, nil
}
