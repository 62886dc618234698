// Package docstore 整文档持久化：每次写入都完整序列化整个文档。
// file 驱动写本地 JSON 文件（默认），mongo 驱动把同一份 JSON 镜像到 MongoDB 的单条记录中。
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
)

// Persister 文档持久化接口
type Persister interface {
	// Load 读取文档到 v；文档不存在时返回 (false, nil)
	Load(ctx context.Context, v any) (bool, error)

	// Save 完整写入文档
	Save(ctx context.Context, v any) error

	// Name 驱动名称（用于日志）
	Name() string
}

// Marshal 将文档编码为带缩进的 JSON，保留非 ASCII 字符（阿拉伯文可读）且不转义 HTML
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
