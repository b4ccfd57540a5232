package chatwork

import (
	"context"
	"time"

	"github.com/weibaohui/difytool-go/manifest"
	"github.com/weibaohui/difytool-go/plugins"
	"github.com/weibaohui/difytool-go/utils"
	"go.uber.org/zap"
)

// Plugin Chatwork 工具插件
type Plugin struct {
	manifest *manifest.Plugin
	logger   *zap.Logger
	request  RequestFunc
}

// NewPlugin 创建 Chatwork 插件
// request 为 nil 时使用默认 HTTP 传输，测试可注入替身
func NewPlugin(m *manifest.Plugin, logger *zap.Logger, request RequestFunc) *Plugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Plugin{
		manifest: m,
		logger:   logger,
		request:  request,
	}
}

// Name 返回插件名称
func (p *Plugin) Name() string {
	return "chatwork"
}

// Manifest 返回插件描述
func (p *Plugin) Manifest() *manifest.Plugin {
	return p.manifest
}

// Actions 返回插件暴露的操作
func (p *Plugin) Actions() map[string]plugins.ActionFunc {
	return map[string]plugins.ActionFunc{
		"postRoomMessage": p.PostRoomMessage,
	}
}

// PostRoomMessage 向 Chatwork 房间发送消息并返回归一化结果
// 任何一步出错都原样向调用方返回，不做本地恢复
func (p *Plugin) PostRoomMessage(ctx context.Context, settings, inputs map[string]any) (map[string]any, error) {
	config, err := SettingsFromMap(settings)
	if err != nil {
		return nil, err
	}

	roomValue := inputs["roomId"]
	if roomValue == nil || roomValue == "" {
		if config.DefaultRoomID != "" {
			roomValue = config.DefaultRoomID
		}
	}
	roomID, err := NormalizeRoomID(roomValue)
	if err != nil {
		return nil, err
	}

	message, _ := inputs["message"].(string)
	selfMention, _ := inputs["selfMention"].(bool)
	linkURLs, _ := inputs["linkUrls"].(bool)

	p.logger.Debug("chatwork postRoomMessage 准备请求",
		zap.String("room_id", roomID),
		zap.Int("message_length", len(message)),
		zap.Bool("self_mention", selfMention),
		zap.Bool("link_urls", linkURLs),
		zap.String("preview", utils.TruncateString(message, 50)),
	)

	client, err := NewClient(config.APIToken, config.BaseURL, p.request)
	if err != nil {
		return nil, err
	}

	payload, err := BuildMessagePayload(message, selfMention, linkURLs, config.AccountID)
	if err != nil {
		return nil, err
	}

	result, err := client.PostRoomMessage(ctx, roomID, payload)
	if err != nil {
		return nil, err
	}

	normalized := map[string]any{
		"messageId": firstField(result, "message_id", "messageId"),
		"roomId":    roomID,
		"postedAt":  normalizeTimestamp(result),
		"raw":       result,
	}

	p.logger.Debug("chatwork postRoomMessage 完成",
		zap.Any("message_id", normalized["messageId"]),
		zap.String("room_id", roomID),
	)

	return normalized, nil
}

// firstField 按顺序返回第一个存在的字段值
func firstField(result map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := result[key]; ok {
			return value
		}
	}
	return nil
}

// normalizeTimestamp 归一化响应中的发送时间
// 数值按 Unix 秒解释并格式化为带 Z 后缀的 ISO-8601，字符串原样返回，其余返回 nil
func normalizeTimestamp(result map[string]any) any {
	value, ok := result["send_time"]
	if !ok {
		value = result["postedAt"]
	}

	switch t := value.(type) {
	case int:
		return formatUnix(int64(t))
	case int64:
		return formatUnix(t)
	case float64:
		return formatUnix(int64(t))
	case string:
		return t
	}

	return nil
}

func formatUnix(sec int64) string {
	return time.Unix(sec, 0).UTC().Format("2006-01-02T15:04:05") + "Z"
}
