package chatwork

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Response 传输层返回的原始响应
type Response struct {
	Status int
	Text   string
}

// OK 状态码是否在 2xx 范围内
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// RequestFunc 执行一次 HTTP 请求的传输函数
// 对成功和 HTTP 错误状态都返回 *Response，只有传输层故障（如无法连接）才返回 error
type RequestFunc func(ctx context.Context, requestURL, method string, headers map[string]string, body []byte) (*Response, error)

// HTTPRequest 默认的传输实现
func HTTPRequest(ctx context.Context, requestURL, method string, headers map[string]string, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{Status: resp.StatusCode, Text: string(data)}, nil
}

// Client Chatwork API 客户端
type Client struct {
	apiToken string
	baseURL  string
	request  RequestFunc
}

// NewClient 创建 Chatwork API 客户端
// request 为 nil 时使用默认 HTTP 传输
func NewClient(apiToken, baseURL string, request RequestFunc) (*Client, error) {
	if apiToken == "" {
		return nil, &ValidationError{Message: "Chatwork API 令牌 (apiToken) 未配置"}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if request == nil {
		request = HTTPRequest
	}

	return &Client{
		apiToken: apiToken,
		baseURL:  strings.TrimRight(baseURL, "/"),
		request:  request,
	}, nil
}

// BuildHeaders 构建请求头
func (c *Client) BuildHeaders() map[string]string {
	return map[string]string{
		"X-ChatWorkToken": c.apiToken,
		"Content-Type":    "application/x-www-form-urlencoded",
	}
}

// PostRoomMessage 向指定房间发送消息，返回解析后的响应体
func (c *Client) PostRoomMessage(ctx context.Context, roomID string, bodyParams map[string]string) (map[string]any, error) {
	if roomID == "" {
		return nil, &ValidationError{Message: "roomId 未指定，请检查设置中的 defaultRoomId"}
	}

	requestURL := fmt.Sprintf("%s/rooms/%s/messages", c.baseURL, url.PathEscape(roomID))

	form := url.Values{}
	for key, value := range bodyParams {
		form.Set(key, value)
	}

	resp, err := c.request(ctx, requestURL, http.MethodPost, c.BuildHeaders(), []byte(form.Encode()))
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("连接 Chatwork API 失败: %v", err)}
	}

	payload := map[string]any{}
	if resp.Text != "" {
		if err := json.Unmarshal([]byte(resp.Text), &payload); err != nil {
			return nil, &APIError{
				Message:      fmt.Sprintf("Chatwork API 响应不是合法的 JSON: %v", err),
				Status:       resp.Status,
				ResponseBody: resp.Text,
			}
		}
	}

	if resp.Status == http.StatusUnauthorized {
		return nil, &AuthenticationError{
			Message:      "Chatwork API 令牌无效",
			Status:       resp.Status,
			ResponseBody: payload,
		}
	}

	if !resp.OK() {
		return nil, &APIError{
			Message:      fmt.Sprintf("Chatwork API 请求失败 (status=%d)", resp.Status),
			Status:       resp.Status,
			ResponseBody: payload,
		}
	}

	return payload, nil
}
