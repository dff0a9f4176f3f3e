package router

import (
	"renew-admin/controllers/admin"
	"renew-admin/controllers/health"
	"renew-admin/middleware"
	"renew-admin/pkg/config"
	"renew-admin/pkg/database"
	"renew-admin/pkg/jwt"
	"renew-admin/pkg/monitoring"
	"renew-admin/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps 路由依赖
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	DB       *database.Provider
	Verifier *jwt.Verifier
	Version  string
}

// New 创建 gin 引擎并注册全部路由
func New(d Deps) *gin.Engine {
	cfg := d.Config
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		log.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		monitoring.PrometheusMiddleware(),
		middleware.SecureHeaders(),
		middleware.Cors(middleware.DefaultCorsConfig(cfg.Security.AllowedOrigins)),
	)

	healthCtl := health.NewHealthController(d.DB, "renew-admin", d.Version)
	r.GET("/health", healthCtl.CheckHealth)
	r.GET("/health/live", healthCtl.CheckLiveness)
	r.GET("/health/ready", healthCtl.CheckReadiness)
	r.GET("/metrics", monitoring.Handler())

	notifications := admin.NewNotificationController(services.NewNotificationService(d.DB), log)
	renewHistories := admin.NewRenewHistoryController(services.NewRenewHistoryService(d.DB), log)

	apiGroup := r.Group("/api")
	if cfg.JWT.ProtectAPI {
		apiGroup.Use(middleware.JWTAuth(d.Verifier, log))
	}
	{
		apiGroup.GET("/notifications", notifications.List)
		apiGroup.GET("/renew-histories", renewHistories.List)
	}

	return r
}
