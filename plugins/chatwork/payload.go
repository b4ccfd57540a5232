package chatwork

import (
	"encoding/json"
	"strconv"
	"strings"
)

// BuildMessagePayload 构建发送消息的请求体
// linkURLs 为 true 时在正文前加 "+"（Chatwork 的链接预览约定），
// selfMention 为 true 且配置了 accountID 时再在最前面加 "[To:<id>] "。
// 两者同时开启时最终顺序固定为 "[To:<id>] +<正文>"，这是对外的线上契约。
func BuildMessagePayload(message string, selfMention, linkURLs bool, accountID string) (map[string]string, error) {
	if message == "" {
		return nil, &ValidationError{Message: "message 是必填项"}
	}

	body := strings.TrimSpace(message)

	if linkURLs {
		body = "+" + body
	}

	if selfMention && accountID != "" {
		body = "[To:" + accountID + "] " + body
	}

	return map[string]string{"body": body}, nil
}

// NormalizeRoomID 归一化房间 ID
// 数值转为整数字符串，字符串去除首尾空白，其余情况视为未指定
func NormalizeRoomID(value any) (string, error) {
	switch t := value.(type) {
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatInt(int64(t), 10), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return strconv.FormatInt(i, 10), nil
		}
	case string:
		normalized := strings.TrimSpace(t)
		if normalized != "" {
			return normalized, nil
		}
	}

	return "", &ValidationError{Message: "roomId 未指定，请检查设置中的 defaultRoomId"}
}
