package admin

import (
	"net/http"

	"renew-admin/pkg/dberr"
	"renew-admin/pkg/monitoring"
	"renew-admin/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeList 成功时写出JSON数组，序列化失败时返回错误
func writeList(c *gin.Context, op string, data interface{}) error {
	if err := response.JSON(c, http.StatusOK, data); err != nil {
		return dberr.Serialization(op, err)
	}
	return nil
}

// failRead 记录读取失败的类别并返回固定的500响应
// 所有类别对外都是同一个状态码和消息，类别只出现在日志和指标中
func failRead(c *gin.Context, log *zap.Logger, op, message string, err error) {
	kind := dberr.KindOf(err)
	monitoring.RecordStoreError(op, kind.String())

	log.Error(message,
		zap.String("op", op),
		zap.String("kind", kind.String()),
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err),
	)

	response.Error(c, http.StatusInternalServerError, message)
}
