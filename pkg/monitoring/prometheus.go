package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus 指标定义
var (
	// HTTP 请求相关指标
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// 数据库相关指标
	dbConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "数据库连接池状态",
		},
		[]string{"state"},
	)

	dbQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "数据库查询总数",
		},
		[]string{"operation", "table"},
	)

	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "数据库查询耗时分布",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"operation", "table"},
	)

	storeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "按类别统计的数据读取失败次数",
		},
		[]string{"operation", "kind"},
	)

	tokenRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_rejections_total",
			Help: "按原因统计的token校验失败次数",
		},
		[]string{"kind"},
	)
)

// PrometheusMiddleware Gin中间件，用于收集HTTP指标
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		httpRequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler 暴露 /metrics
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordDBQuery(operation, table string, duration time.Duration) {
	dbQueriesTotal.WithLabelValues(operation, table).Inc()
	dbQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func RecordStoreError(operation, kind string) {
	storeErrorsTotal.WithLabelValues(operation, kind).Inc()
}

func RecordTokenRejection(kind string) {
	tokenRejectionsTotal.WithLabelValues(kind).Inc()
}

func UpdateDBConnections(inUse, idle int) {
	dbConnections.WithLabelValues("in_use").Set(float64(inUse))
	dbConnections.WithLabelValues("idle").Set(float64(idle))
}
