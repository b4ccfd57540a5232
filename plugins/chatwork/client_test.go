package chatwork

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// capturedRequest 替身传输记录下的请求
type capturedRequest struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    string
}

// fakeTransport 返回固定响应并记录请求的传输替身
func fakeTransport(status int, text string, captured *capturedRequest) RequestFunc {
	return func(ctx context.Context, requestURL, method string, headers map[string]string, body []byte) (*Response, error) {
		if captured != nil {
			captured.URL = requestURL
			captured.Method = method
			captured.Headers = headers
			captured.Body = string(body)
		}
		return &Response{Status: status, Text: text}, nil
	}
}

func jsonBody(t *testing.T, payload map[string]any) string {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("构造响应体失败: %v", err)
	}
	return string(data)
}

// TestNewClient 测试客户端构造
func TestNewClient(t *testing.T) {
	t.Run("缺少令牌", func(t *testing.T) {
		_, err := NewClient("", "", nil)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("期望 *ValidationError, 实际 %v", err)
		}
	})

	t.Run("去除 baseURL 尾部斜杠", func(t *testing.T) {
		captured := &capturedRequest{}
		client, err := NewClient("tok", "https://example.com/api/", fakeTransport(200, "{}", captured))
		if err != nil {
			t.Fatalf("NewClient() 返回错误: %v", err)
		}
		if _, err := client.PostRoomMessage(context.Background(), "1", map[string]string{"body": "x"}); err != nil {
			t.Fatalf("PostRoomMessage() 返回错误: %v", err)
		}
		if captured.URL != "https://example.com/api/rooms/1/messages" {
			t.Errorf("URL = %q, 期望不含双斜杠", captured.URL)
		}
	})
}

// TestClientPostRoomMessage 测试消息发送请求
func TestClientPostRoomMessage(t *testing.T) {
	t.Run("请求构造", func(t *testing.T) {
		captured := &capturedRequest{}
		client, err := NewClient("token-123", "", fakeTransport(200, jsonBody(t, map[string]any{"message_id": "mid-1"}), captured))
		if err != nil {
			t.Fatalf("NewClient() 返回错误: %v", err)
		}

		result, err := client.PostRoomMessage(context.Background(), "room-42", map[string]string{"body": "[To:321] +Hello"})
		if err != nil {
			t.Fatalf("PostRoomMessage() 返回错误: %v", err)
		}

		if captured.Method != "POST" {
			t.Errorf("Method = %q, 期望 POST", captured.Method)
		}
		if !strings.HasSuffix(captured.URL, "/rooms/room-42/messages") {
			t.Errorf("URL = %q, 期望以 /rooms/room-42/messages 结尾", captured.URL)
		}
		if captured.Headers["X-ChatWorkToken"] != "token-123" {
			t.Errorf("X-ChatWorkToken = %q, 期望 token-123", captured.Headers["X-ChatWorkToken"])
		}
		if captured.Headers["Content-Type"] != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q, 期望表单编码", captured.Headers["Content-Type"])
		}
		if captured.Body != "body=%5BTo%3A321%5D+%2BHello" {
			t.Errorf("Body = %q, 期望 body=%%5BTo%%3A321%%5D+%%2BHello", captured.Body)
		}
		if result["message_id"] != "mid-1" {
			t.Errorf("message_id = %v, 期望 mid-1", result["message_id"])
		}
	})

	t.Run("缺少房间 ID", func(t *testing.T) {
		client, err := NewClient("tok", "", fakeTransport(200, "{}", nil))
		if err != nil {
			t.Fatalf("NewClient() 返回错误: %v", err)
		}
		_, err = client.PostRoomMessage(context.Background(), "", map[string]string{"body": "x"})
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("期望 *ValidationError, 实际 %v", err)
		}
	})

	t.Run("401 返回认证错误", func(t *testing.T) {
		client, _ := NewClient("tok", "", fakeTransport(401, jsonBody(t, map[string]any{"error": "Unauthorized"}), nil))
		_, err := client.PostRoomMessage(context.Background(), "1", map[string]string{"body": "x"})

		var authErr *AuthenticationError
		if !errors.As(err, &authErr) {
			t.Fatalf("期望 *AuthenticationError, 实际 %v", err)
		}
		if authErr.Status != 401 {
			t.Errorf("Status = %d, 期望 401", authErr.Status)
		}
		body, ok := authErr.ResponseBody.(map[string]any)
		if !ok || body["error"] != "Unauthorized" {
			t.Errorf("ResponseBody = %v, 期望包含解析后的响应", authErr.ResponseBody)
		}
	})

	t.Run("非 2xx 返回 API 错误", func(t *testing.T) {
		client, _ := NewClient("tok", "", fakeTransport(500, jsonBody(t, map[string]any{"error": "server"}), nil))
		_, err := client.PostRoomMessage(context.Background(), "1", map[string]string{"body": "x"})

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("期望 *APIError, 实际 %v", err)
		}
		if apiErr.Status != 500 || !apiErr.HasStatus() {
			t.Errorf("Status = %d, 期望 500", apiErr.Status)
		}
	})

	t.Run("响应不是合法 JSON", func(t *testing.T) {
		client, _ := NewClient("tok", "", fakeTransport(200, "not-json", nil))
		_, err := client.PostRoomMessage(context.Background(), "1", map[string]string{"body": "x"})

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("期望 *APIError, 实际 %v", err)
		}
		if apiErr.Status != 200 {
			t.Errorf("Status = %d, 期望 200", apiErr.Status)
		}
		if apiErr.ResponseBody != "not-json" {
			t.Errorf("ResponseBody = %v, 期望原始文本", apiErr.ResponseBody)
		}
	})

	t.Run("空响应体视为空映射", func(t *testing.T) {
		client, _ := NewClient("tok", "", fakeTransport(204, "", nil))
		result, err := client.PostRoomMessage(context.Background(), "1", map[string]string{"body": "x"})
		if err != nil {
			t.Fatalf("PostRoomMessage() 返回错误: %v", err)
		}
		if len(result) != 0 {
			t.Errorf("result = %v, 期望空映射", result)
		}
	})

	t.Run("传输层失败包装为无状态码的 API 错误", func(t *testing.T) {
		transport := func(ctx context.Context, requestURL, method string, headers map[string]string, body []byte) (*Response, error) {
			return nil, errors.New("connection refused")
		}
		client, _ := NewClient("tok", "", transport)
		_, err := client.PostRoomMessage(context.Background(), "1", map[string]string{"body": "x"})

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("期望 *APIError, 实际 %v", err)
		}
		if apiErr.HasStatus() {
			t.Errorf("Status = %d, 期望没有状态码", apiErr.Status)
		}
	})
}
