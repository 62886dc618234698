// Package docs 注册 swagger 文档，/swagger/doc.json 返回渲染后的 swagger.json.tmpl
// 新增或修改接口时同步更新 swagger.json.tmpl 与对应 handler 上的注释
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json.tmpl
var docTemplate string

// SwaggerInfo 文档元信息
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Mujtama API",
	Description:      "Arabic/English community platform: posts, ideas, comments, likes and votes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
