package chatwork

import "fmt"

// ValidationError 输入或配置不合法时返回的错误
// 总是在发起网络请求之前产生
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthenticationError 认证失败 (HTTP 401) 时返回的错误
type AuthenticationError struct {
	Message      string
	Status       int
	ResponseBody any
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s (status=%d)", e.Message, e.Status)
}

// APIError 访问 Chatwork API 出错时返回的错误
// Status 为 0 表示传输层失败，没有拿到 HTTP 状态码
type APIError struct {
	Message      string
	Status       int
	ResponseBody any
}

func (e *APIError) Error() string {
	if !e.HasStatus() {
		return e.Message
	}
	return fmt.Sprintf("%s (status=%d)", e.Message, e.Status)
}

// HasStatus 是否携带 HTTP 状态码
func (e *APIError) HasStatus() bool {
	return e.Status != 0
}
