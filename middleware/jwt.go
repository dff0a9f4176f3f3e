package middleware

import (
	"net/http"
	"strings"

	"renew-admin/pkg/jwt"
	"renew-admin/pkg/monitoring"
	"renew-admin/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClaimsKey 解析出的 claims 在 gin.Context 中的键
const ClaimsKey = "claims"

// JWTAuth 校验 Bearer token，失败统一返回401 invalid token，具体原因只写日志
func JWTAuth(v *jwt.Verifier, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || tokenString == "" {
			response.Abort(c, http.StatusUnauthorized, jwt.ErrInvalidToken.Error())
			return
		}

		claims, err := v.Verify(tokenString)
		if err != nil {
			kind := jwt.KindOf(err)
			monitoring.RecordTokenRejection(kind.String())
			log.Warn("token rejected",
				zap.String("kind", kind.String()),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString("request_id")),
				zap.String("detail", jwt.Detail(err)),
			)
			response.Abort(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
