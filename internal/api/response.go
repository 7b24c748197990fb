// FileName: api/response.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务错误码。HTTP 状态码表达传输层语义，业务码供前端做分支处理。
const (
	ErrCodeClientInvalidInput = 40001 // 请求参数无效
	ErrCodeClientNotFound     = 40401 // 目标资源不存在
	ErrCodeServerInternal     = 50001 // 服务内部错误
)

// APIResponse 是所有接口统一的响应信封。
type APIResponse struct {
	Code    int         `json:"code"`              // 业务错误码，0 表示成功
	Message string      `json:"message"`           // 人类可读的提示信息
	Data    interface{} `json:"data,omitempty"`    // 业务数据，失败时缺席
}

// RespondSuccess 以 200 返回成功信封。
func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// RespondError 以指定 HTTP 状态码返回失败信封。
func RespondError(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}
