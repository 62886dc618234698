// Package storage 头像等用户上传文件的存储抽象。
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// Storage 存储接口
type Storage interface {
	// Upload 上传文件，返回对外访问URL；size 未知时传 -1
	Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error)

	// Delete 删除文件（不存在视为成功）
	Delete(ctx context.Context, key string) error

	// Exists 检查文件是否存在
	Exists(ctx context.Context, key string) (bool, error)

	// GetStorageType 获取存储类型
	GetStorageType() string
}

// StorageType 存储类型
type StorageType string

const (
	StorageTypeLocal StorageType = "local" // 本地文件系统
	StorageTypeOSS   StorageType = "oss"   // 阿里云OSS
	StorageTypeMinIO StorageType = "minio" // MinIO / S3 兼容
)

// 允许上传的头像类型
var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ImageContentType 根据扩展名返回图片 Content-Type，非图片返回 false
func ImageContentType(filename string) (string, bool) {
	ct, ok := imageContentTypes[strings.ToLower(filepath.Ext(filename))]
	return ct, ok
}
