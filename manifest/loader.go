package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadBundle 加载并校验插件包根描述文件
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", path, err)
	}

	bundle := &Bundle{}
	if err := yaml.Unmarshal(data, bundle); err != nil {
		return nil, fmt.Errorf("解析 %s 失败: %w", path, err)
	}

	if err := bundle.Validate(); err != nil {
		return nil, err
	}

	return bundle, nil
}

// LoadPlugin 加载并校验单个插件描述文件
func LoadPlugin(path string) (*Plugin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", path, err)
	}

	plugin := &Plugin{}
	if err := json.Unmarshal(data, plugin); err != nil {
		return nil, fmt.Errorf("解析 %s 失败: %w", path, err)
	}

	if err := plugin.Validate(); err != nil {
		return nil, err
	}

	return plugin, nil
}
