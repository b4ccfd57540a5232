package manifest

import (
	"fmt"
	"strings"
)

// Bundle 插件包根描述文件 (manifest.yaml)
type Bundle struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Type        string   `yaml:"type"`
	Runtime     string   `yaml:"runtime"`
	Description string   `yaml:"description,omitempty"`
	Plugins     []string `yaml:"plugins,omitempty"` // 各插件 manifest.json 的相对路径
}

// Plugin 单个插件的描述文件 (manifest.json)
type Plugin struct {
	Name        string  `json:"name"`
	Label       string  `json:"label,omitempty"`
	Version     string  `json:"version"`
	Description string  `json:"description,omitempty"`
	Settings    []Param `json:"settings,omitempty"`
	Tools       []Tool  `json:"tools,omitempty"`
}

// Tool 插件暴露的单个操作
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  []Param `json:"parameters,omitempty"`
}

// Param 设置项或输入参数的声明
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // string/number/boolean
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
}

// Validate 校验根描述文件的必填字段
func (b *Bundle) Validate() error {
	var missing []string
	if strings.TrimSpace(b.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(b.Version) == "" {
		missing = append(missing, "version")
	}
	if strings.TrimSpace(b.Type) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(b.Runtime) == "" {
		missing = append(missing, "runtime")
	}
	if len(missing) > 0 {
		return fmt.Errorf("manifest.yaml 缺少必填字段: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Validate 校验插件描述文件的必填字段
func (p *Plugin) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.Version) == "" {
		missing = append(missing, "version")
	}
	if len(missing) > 0 {
		return fmt.Errorf("manifest.json 缺少必填字段: %s", strings.Join(missing, ", "))
	}
	return nil
}
