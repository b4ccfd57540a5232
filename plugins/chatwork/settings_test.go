package chatwork

import (
	"errors"
	"testing"
)

// TestSettingsFromMap 测试配置解析
func TestSettingsFromMap(t *testing.T) {
	t.Run("正常解析", func(t *testing.T) {
		settings, err := SettingsFromMap(map[string]any{
			"apiToken":      " tok ",
			"baseUrl":       "https://example.com/api/",
			"defaultRoomId": " 42 ",
		})
		if err != nil {
			t.Fatalf("SettingsFromMap() 返回错误: %v", err)
		}

		if settings.APIToken != "tok" {
			t.Errorf("APIToken = %q, 期望 tok", settings.APIToken)
		}
		if settings.BaseURL != "https://example.com/api" {
			t.Errorf("BaseURL = %q, 期望去掉尾部斜杠", settings.BaseURL)
		}
		if settings.DefaultRoomID != "42" {
			t.Errorf("DefaultRoomID = %q, 期望 42", settings.DefaultRoomID)
		}
		if settings.AccountID != "" {
			t.Errorf("AccountID = %q, 期望为空", settings.AccountID)
		}
	})

	t.Run("缺少 apiToken", func(t *testing.T) {
		_, err := SettingsFromMap(map[string]any{})
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("期望 *ValidationError, 实际 %v", err)
		}
	})

	t.Run("apiToken 全是空白", func(t *testing.T) {
		_, err := SettingsFromMap(map[string]any{"apiToken": "   "})
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("期望 *ValidationError, 实际 %v", err)
		}
	})

	t.Run("baseUrl 缺省使用默认地址", func(t *testing.T) {
		settings, err := SettingsFromMap(map[string]any{"apiToken": "tok"})
		if err != nil {
			t.Fatalf("SettingsFromMap() 返回错误: %v", err)
		}
		if settings.BaseURL != DefaultBaseURL {
			t.Errorf("BaseURL = %q, 期望 %q", settings.BaseURL, DefaultBaseURL)
		}
	})

	t.Run("可选项空白字符串视为未设置", func(t *testing.T) {
		settings, err := SettingsFromMap(map[string]any{
			"apiToken":      "tok",
			"defaultRoomId": "   ",
			"accountId":     "",
		})
		if err != nil {
			t.Fatalf("SettingsFromMap() 返回错误: %v", err)
		}
		if settings.DefaultRoomID != "" {
			t.Errorf("DefaultRoomID = %q, 期望为空", settings.DefaultRoomID)
		}
		if settings.AccountID != "" {
			t.Errorf("AccountID = %q, 期望为空", settings.AccountID)
		}
	})

	t.Run("数值型房间 ID 转为整数字符串", func(t *testing.T) {
		settings, err := SettingsFromMap(map[string]any{
			"apiToken":      "tok",
			"defaultRoomId": float64(42),
			"accountId":     321,
		})
		if err != nil {
			t.Fatalf("SettingsFromMap() 返回错误: %v", err)
		}
		if settings.DefaultRoomID != "42" {
			t.Errorf("DefaultRoomID = %q, 期望 42", settings.DefaultRoomID)
		}
		if settings.AccountID != "321" {
			t.Errorf("AccountID = %q, 期望 321", settings.AccountID)
		}
	})
}
