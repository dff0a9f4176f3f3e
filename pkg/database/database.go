package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"renew-admin/pkg/config"
	"renew-admin/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// modernc.org/sqlite 注册的驱动名，纯Go实现，不依赖cgo
const sqliteDriverName = "sqlite"

var (
	defaultMu       sync.RWMutex
	defaultProvider *Provider
)

// ErrNotInitialized 默认连接提供者尚未初始化
var ErrNotInitialized = errors.New("database not initialized, call Init() first")

// Provider 进程级的数据库客户端提供者
// 首次调用 DB() 时按配置构建唯一的 *gorm.DB，之后始终返回同一实例
type Provider struct {
	cfg config.DatabaseConfig
	log *zap.Logger

	once sync.Once
	db   *gorm.DB
	err  error
}

// NewProvider 创建连接提供者，此时不会建立连接
func NewProvider(cfg config.DatabaseConfig, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{cfg: cfg, log: log}
}

// Init 初始化默认连接提供者
func Init(cfg config.DatabaseConfig, log *zap.Logger) *Provider {
	p := NewProvider(cfg, log)

	defaultMu.Lock()
	defaultProvider = p
	defaultMu.Unlock()

	return p
}

// Default 获取默认连接提供者
func Default() (*Provider, error) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	if defaultProvider == nil {
		return nil, ErrNotInitialized
	}
	return defaultProvider, nil
}

// DB 获取数据库实例
func (p *Provider) DB() (*gorm.DB, error) {
	p.once.Do(func() {
		p.db, p.err = open(p.cfg, p.log)
		if p.err != nil {
			p.log.Error("database client construction failed",
				zap.String("driver", p.cfg.Driver), zap.Error(p.err))
			return
		}
		p.log.Info("database client constructed",
			zap.String("driver", p.cfg.Driver),
			zap.Int("max_open_conns", p.cfg.MaxOpenConns),
			zap.Int("max_idle_conns", p.cfg.MaxIdleConns),
			zap.Duration("conn_max_lifetime", p.cfg.ConnMaxLifetime))
	})
	return p.db, p.err
}

func open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   newGormLogger(log, cfg),
		DisableAutomaticPing:                     true, // 连接在首次查询时建立
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// 内存库的每个连接都是独立的数据库
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	return db, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "mysql":
		return mysql.New(mysql.Config{
			DSN:                       cfg.DSN,
			SkipInitializeWithVersion: true,
		}), nil
	case "sqlite":
		return sqlite.New(sqlite.Config{
			DriverName: sqliteDriverName,
			DSN:        cfg.DSN,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// newGormLogger 创建数据库日志器，输出到 zap
func newGormLogger(log *zap.Logger, cfg config.DatabaseConfig) logger.Interface {
	var logLevel logger.LogLevel
	switch cfg.LogLevel {
	case "silent":
		logLevel = logger.Silent
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	case "info":
		logLevel = logger.Info
	default:
		logLevel = logger.Warn
	}

	slow := cfg.SlowThreshold
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}

	return logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             slow,
			Colorful:                  false,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			LogLevel:                  logLevel,
		},
	)
}

// HealthCheck 数据库健康检查
func (p *Provider) HealthCheck(ctx context.Context) error {
	db, err := p.DB()
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Stats 获取数据库连接池统计信息
func (p *Provider) Stats() map[string]interface{} {
	db, err := p.DB()
	if err != nil {
		return map[string]interface{}{
			"error": err.Error(),
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return map[string]interface{}{
			"error": fmt.Sprintf("failed to get underlying sql.DB: %v", err),
		}
	}

	stats := sqlDB.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
	}
}

// StartPoolMonitor 定期把连接池状态写入监控指标，ctx 取消后退出
func (p *Provider) StartPoolMonitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		db, err := p.DB()
		if err != nil {
			continue
		}
		sqlDB, err := db.DB()
		if err != nil {
			continue
		}

		stats := sqlDB.Stats()
		monitoring.UpdateDBConnections(stats.InUse, stats.Idle)

		// 只在连接使用异常时记录日志
		if stats.MaxOpenConnections > 0 {
			usage := float64(stats.OpenConnections) / float64(stats.MaxOpenConnections)
			if usage > 0.7 || stats.WaitCount > 0 {
				p.log.Warn("database pool pressure",
					zap.Int("open", stats.OpenConnections),
					zap.Int("max_open", stats.MaxOpenConnections),
					zap.Int("in_use", stats.InUse),
					zap.Int("idle", stats.Idle),
					zap.Int64("wait_count", stats.WaitCount))
			}
		}
	}
}

// Close 关闭数据库连接，仅在进程退出时调用
func (p *Provider) Close() error {
	if p.db == nil {
		return nil
	}

	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
