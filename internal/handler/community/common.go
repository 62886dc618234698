package community

// ErrorResponse 错误响应（swagger 文档使用）
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message"`
}

// PageQuery 偏移分页参数
type PageQuery struct {
	Limit  int `json:"limit" form:"limit"`
	Offset int `json:"offset" form:"offset"`
}

// IDResponseData 创建类接口的响应数据
type IDResponseData struct {
	ID string `json:"id"`
}
