package chatwork

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultBaseURL Chatwork API 默认地址
const DefaultBaseURL = "https://api.chatwork.com/v2"

// Settings Chatwork 插件的配置
type Settings struct {
	APIToken      string
	BaseURL       string
	DefaultRoomID string
	AccountID     string
}

// SettingsFromMap 从宿主下发的配置构建 Settings
// apiToken 去除首尾空白后不能为空
func SettingsFromMap(data map[string]any) (*Settings, error) {
	apiToken := strings.TrimSpace(coerceString(data["apiToken"]))
	if apiToken == "" {
		return nil, &ValidationError{Message: "Chatwork API 令牌 (apiToken) 未配置"}
	}

	baseURL := strings.TrimSpace(coerceString(data["baseUrl"]))
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Settings{
		APIToken:      apiToken,
		BaseURL:       strings.TrimRight(baseURL, "/"),
		DefaultRoomID: optionalString(data["defaultRoomId"]),
		AccountID:     optionalString(data["accountId"]),
	}, nil
}

// coerceString 把任意值转成字符串，nil 视为空串
func coerceString(value any) string {
	switch t := value.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// optionalString 处理可选的字符串设置项
// 字符串去除首尾空白，空串视为未设置；数值转为整数字符串
func optionalString(value any) string {
	switch t := value.(type) {
	case string:
		return strings.TrimSpace(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatInt(int64(t), 10)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
