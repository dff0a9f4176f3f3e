package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"renew-admin/pkg/response"

	"github.com/gin-gonic/gin"
)

// startTime 应用启动时间
var startTime = time.Now()

// Checker 数据库健康检查接口
type Checker interface {
	HealthCheck(ctx context.Context) error
	Stats() map[string]interface{}
}

// HealthController 健康检查控制器
type HealthController struct {
	db      Checker
	service string
	version string
}

// NewHealthController 创建健康检查控制器
func NewHealthController(db Checker, service, version string) *HealthController {
	return &HealthController{db: db, service: service, version: version}
}

// CheckHealth 基础健康检查
func (h *HealthController) CheckHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"service":   h.service,
		"version":   h.version,
		"uptime":    time.Since(startTime).String(),
	})
}

// CheckLiveness 存活性检查
func (h *HealthController) CheckLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// CheckReadiness 就绪性检查
func (h *HealthController) CheckReadiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.HealthCheck(ctx); err != nil {
		response.Error(c, http.StatusServiceUnavailable, "service not ready")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
		"database":  h.db.Stats(),
		"runtime": gin.H{
			"go_version":    runtime.Version(),
			"num_goroutine": runtime.NumGoroutine(),
		},
	})
}
