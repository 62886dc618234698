// Package http 统一响应格式：{success, message, data?}
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mujtama/internal/pkg/apperr"
)

// Response 响应信封（所有API共用）
type Response struct {
	Success bool        `json:"success"`        // 是否成功
	Message string      `json:"message"`        // 面向用户的提示信息
	Data    interface{} `json:"data,omitempty"` // 响应数据（可选）
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(message string, data interface{}) *Response {
	return &Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(message string) *Response {
	return &Response{
		Success: false,
		Message: message,
	}
}

// OK 写入 200 成功响应
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, NewSuccessResponse(message, data))
}

// Fail 写入指定状态码的错误响应
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, NewErrorResponse(message))
}

// Error 按错误分类写入错误响应：校验 400，认证 401，其他 500
func Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(apperr.HTTPStatus(err), NewErrorResponse(apperr.Message(err)))
}

// BadRequest 请求参数无法解析
func BadRequest(c *gin.Context) {
	Fail(c, http.StatusBadRequest, MsgInvalidRequest)
}

// MsgInvalidRequest 请求体无法解析
const MsgInvalidRequest = "بيانات الطلب غير صالحة"
