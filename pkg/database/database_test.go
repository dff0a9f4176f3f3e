package database_test

import (
	"context"
	"sync"
	"testing"

	"renew-admin/pkg/config"
	"renew-admin/pkg/database"
	"renew-admin/pkg/database/dbtest"

	"gorm.io/gorm"
)

func TestProviderReturnsSameInstance(t *testing.T) {
	t.Parallel()

	p := database.NewProvider(dbtest.Config(), nil)
	t.Cleanup(func() { _ = p.Close() })

	first, err := p.DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	second, err := p.DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	if first != second {
		t.Error("DB() returned different instances")
	}
}

func TestProviderConcurrentFirstUse(t *testing.T) {
	t.Parallel()

	p := database.NewProvider(dbtest.Config(), nil)
	t.Cleanup(func() { _ = p.Close() })

	const workers = 16
	got := make([]*gorm.DB, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := p.DB()
			if err != nil {
				t.Errorf("DB() error = %v", err)
				return
			}
			got[i] = db
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if got[i] != got[0] {
			t.Fatalf("worker %d got a different instance", i)
		}
	}
}

func TestProviderUnsupportedDriver(t *testing.T) {
	t.Parallel()

	p := database.NewProvider(config.DatabaseConfig{Driver: "oracle", DSN: "x"}, nil)

	_, err1 := p.DB()
	if err1 == nil {
		t.Fatal("DB() error = nil, want error")
	}
	// 构建失败的结果同样只计算一次
	_, err2 := p.DB()
	if err1 != err2 {
		t.Errorf("DB() errors differ: %v vs %v", err1, err2)
	}
}

func TestProviderMySQLDoesNotDialOnConstruction(t *testing.T) {
	t.Parallel()

	// 不可达地址：构建成功，首次查询时才会失败
	p := database.NewProvider(config.DatabaseConfig{
		Driver:       "mysql",
		DSN:          "user:pass@tcp(127.0.0.1:1)/renew?timeout=100ms",
		MaxOpenConns: 2,
		MaxIdleConns: 1,
	}, nil)
	t.Cleanup(func() { _ = p.Close() })

	if _, err := p.DB(); err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	if err := p.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() error = nil, want error for unreachable server")
	}
}

func TestHealthCheckAndStats(t *testing.T) {
	t.Parallel()

	p := dbtest.NewProvider(t)

	if err := p.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck() error = %v", err)
	}

	stats := p.Stats()
	if _, ok := stats["error"]; ok {
		t.Fatalf("Stats() = %v", stats)
	}
	if stats["max_open_connections"] != 1 {
		t.Errorf("max_open_connections = %v, want 1", stats["max_open_connections"])
	}

	dbtest.Break(t, p)
	if err := p.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() after close error = nil, want error")
	}
}

func TestDefaultProvider(t *testing.T) {
	// 不并行：修改包级默认值
	p := database.Init(dbtest.Config(), nil)
	t.Cleanup(func() { _ = p.Close() })

	got, err := database.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if got != p {
		t.Error("Default() returned a different provider than Init()")
	}
}

func TestCloseBeforeUse(t *testing.T) {
	t.Parallel()

	p := database.NewProvider(dbtest.Config(), nil)
	if err := p.Close(); err != nil {
		t.Errorf("Close() before DB() error = %v", err)
	}
}
