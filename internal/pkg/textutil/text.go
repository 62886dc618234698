package textutil

import (
	"regexp"
	"strings"
)

// ExcerptLength 摘要最大字符数（按 rune 计，阿拉伯文不会被截断成半个字符）
const ExcerptLength = 150

var (
	scriptPattern = regexp.MustCompile(`(?is)<\s*(script|style)[^>]*>.*?<\s*/\s*(script|style)\s*>`)
	tagPattern    = regexp.MustCompile(`(?s)<[^>]*>`)
)

// StripMarkup 移除 HTML 标签（script/style 连同内容一起移除）
func StripMarkup(text string) string {
	text = scriptPattern.ReplaceAllString(text, "")
	text = tagPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Excerpt 生成纯文本摘要：超过 ExcerptLength 时截断并追加省略号
func Excerpt(content string) string {
	plain := StripMarkup(content)
	runes := []rune(plain)
	if len(runes) <= ExcerptLength {
		return plain
	}
	return string(runes[:ExcerptLength]) + "..."
}

// SplitTags 按逗号切分标签并去除空白，空标签被丢弃
func SplitTags(csv string) []string {
	tags := make([]string, 0)
	for _, tag := range strings.Split(csv, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ContainsFold 大小写不敏感的子串匹配
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
