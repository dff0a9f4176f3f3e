package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"renew-admin/pkg/config"
	"renew-admin/pkg/database"
	"renew-admin/pkg/jwt"
	"renew-admin/pkg/logger"
	"renew-admin/router"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 构建时注入的变量
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "-version", "--version", "-v":
			fmt.Printf("renew-admin\n")
			fmt.Printf("Version: %s\n", Version)
			fmt.Printf("Build Time: %s\n", BuildTime)
			fmt.Printf("Git Commit: %s\n", GitCommit)
			return
		}
	}

	if err := config.InitConfig(); err != nil {
		log.Fatalf("配置初始化失败: %v", err)
	}
	cfg := config.GetConfig()

	zl, err := logger.Init(cfg.Log.Level, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.Mode)

	// 数据库客户端在首次请求时构建
	db := database.Init(cfg.Database, zl)

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	go db.StartPoolMonitor(monitorCtx, 60*time.Second)

	app := router.New(router.Deps{
		Config:   cfg,
		Log:      zl,
		DB:       db,
		Verifier: jwt.NewVerifierFromConfig(cfg.JWT),
		Version:  Version,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zl.Info("server starting", zap.String("addr", server.Addr), zap.String("mode", cfg.Server.Mode))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}

	stopMonitor()
	if err := db.Close(); err != nil {
		zl.Error("close database", zap.Error(err))
	}

	zl.Info("server stopped")
}
