package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody 错误响应结构
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON 先序列化再写出，序列化失败时尚未写入任何内容，调用方仍可返回错误响应
func JSON(c *gin.Context, status int, data interface{}) error {
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.Data(status, "application/json; charset=utf-8", body)
	return nil
}

// Error 错误响应
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Error: message})
}

// Abort 中断请求并返回错误
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

// InternalError 500 响应，使用标准状态文本
func InternalError(c *gin.Context) {
	Abort(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
