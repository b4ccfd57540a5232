package utils

import (
	"strings"
)

// ContainsInsensitive 检查字符串 s 是否包含子串 substr（不区分大小写）
func ContainsInsensitive(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// HasSuffixInsensitive 检查字符串 s 是否以 suffix 结尾（不区分大小写）
func HasSuffixInsensitive(s, suffix string) bool {
	return strings.HasSuffix(strings.ToLower(s), strings.ToLower(suffix))
}

// TruncateString 截断字符串
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
