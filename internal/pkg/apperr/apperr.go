// Package apperr 定义业务错误分类：校验错误、认证错误、存储错误。
// 每个错误携带面向用户的（阿拉伯语）提示信息，Handler 层根据分类映射 HTTP 状态码。
package apperr

import (
	"errors"
	"net/http"
)

// Kind 错误分类
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthentication
	KindDatabase
)

// String 返回分类名称
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindDatabase:
		return "database"
	default:
		return "unknown"
	}
}

// Error 业务错误
type Error struct {
	Kind    Kind
	Message string // 用户可见信息
	Err     error  // 底层错误（可选）
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation 创建校验错误
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Authentication 创建认证错误
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// Database 包装存储层错误
func Database(message string, err error) *Error {
	return &Error{Kind: KindDatabase, Message: message, Err: err}
}

// KindOf 返回错误链中第一个 *Error 的分类
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Message 返回用户可见信息，非业务错误返回通用提示
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "حدث خطأ غير متوقع"
}

// HTTPStatus 将错误分类映射为 HTTP 状态码
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
