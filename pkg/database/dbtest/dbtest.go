// Package dbtest 为测试提供基于内存 sqlite 的连接提供者
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"renew-admin/model"
	"renew-admin/pkg/config"
	"renew-admin/pkg/database"
)

var seq atomic.Int64

// Config 返回一个独立内存库的配置
func Config() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      fmt.Sprintf("file:dbtest_%d?mode=memory&cache=shared", seq.Add(1)),
		LogLevel: "silent",
	}
}

// NewProvider 创建已建表的提供者，测试结束时关闭
func NewProvider(t testing.TB) *database.Provider {
	t.Helper()

	p := database.NewProvider(Config(), nil)
	db, err := p.DB()
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Service{}, &model.Notification{}, &model.RenewHistory{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}

	t.Cleanup(func() {
		_ = p.Close()
	})
	return p
}

// Break 关闭底层连接，之后的查询都会失败
func Break(t testing.TB, p *database.Provider) {
	t.Helper()

	if err := p.Close(); err != nil {
		t.Fatalf("关闭测试数据库失败: %v", err)
	}
}

// Fixture 写入的测试数据
type Fixture struct {
	Services       []model.Service
	Notifications  []model.Notification
	RenewHistories []model.RenewHistory
}

// Seed 写入 notifications 条通知（每条关联一个独立服务）和 histories 条续费记录
func Seed(t testing.TB, p *database.Provider, notifications, histories int) Fixture {
	t.Helper()

	db, err := p.DB()
	if err != nil {
		t.Fatalf("获取测试数据库失败: %v", err)
	}

	var f Fixture
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	services := notifications
	if services == 0 && histories > 0 {
		services = 1
	}
	for i := 0; i < services; i++ {
		next := base.AddDate(0, i+1, 0)
		svc := model.Service{
			Name:          fmt.Sprintf("service-%d", i+1),
			Provider:      "example-cloud",
			Plan:          "pro",
			Price:         decimal.RequireFromString("12.50"),
			Currency:      "USD",
			RenewalCycle:  "monthly",
			NextRenewalAt: &next,
		}
		if err := db.Create(&svc).Error; err != nil {
			t.Fatalf("写入服务失败: %v", err)
		}
		f.Services = append(f.Services, svc)
	}

	for i := 0; i < notifications; i++ {
		notifyAt := base.AddDate(0, i+1, -7)
		n := model.Notification{
			ServiceID: f.Services[i].ID,
			Title:     fmt.Sprintf("%s renews soon", f.Services[i].Name),
			Message:   "renewal due in 7 days",
			Type:      "renewal_due",
			NotifyAt:  &notifyAt,
		}
		if err := db.Create(&n).Error; err != nil {
			t.Fatalf("写入通知失败: %v", err)
		}
		f.Notifications = append(f.Notifications, n)
	}

	for i := 0; i < histories; i++ {
		prev := base.AddDate(0, i, 0)
		next := base.AddDate(0, i+1, 0)
		h := model.RenewHistory{
			ServiceID:        f.Services[0].ID,
			Amount:           decimal.RequireFromString("12.50"),
			Currency:         "USD",
			RenewedAt:        prev,
			PreviousExpiryAt: &prev,
			NewExpiryAt:      &next,
			Status:           "success",
			Note:             fmt.Sprintf("cycle %d", i+1),
		}
		if err := db.Create(&h).Error; err != nil {
			t.Fatalf("写入续费记录失败: %v", err)
		}
		f.RenewHistories = append(f.RenewHistories, h)
	}

	return f
}
