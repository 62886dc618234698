package id

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// New 生成新的实体ID（UUID字符串）
func New() string {
	return uuid.New().String()
}

// IsValid 验证ID格式是否有效
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ObjectKey 生成存储对象 key，例如 avatars/<owner>/<uuid>.png
func ObjectKey(prefix, owner, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	name := uuid.New().String()
	if ext != "" {
		name += "." + ext
	}
	return path.Join(prefix, owner, name)
}
