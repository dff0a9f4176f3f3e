package services

import (
	"context"
	"time"

	"renew-admin/model"
	"renew-admin/pkg/database"
	"renew-admin/pkg/dberr"
	"renew-admin/pkg/monitoring"
)

const opListNotifications = "notifications.list"

// NotificationService 通知查询服务
type NotificationService struct {
	provider *database.Provider
}

func NewNotificationService(provider *database.Provider) *NotificationService {
	return &NotificationService{provider: provider}
}

// ListNotifications 查询全部通知，并预加载关联的服务
func (s *NotificationService) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	db, err := s.provider.DB()
	if err != nil {
		return nil, dberr.Connection(opListNotifications, err)
	}

	start := time.Now()
	var list []model.Notification
	err = db.WithContext(ctx).Preload("Service").Find(&list).Error
	monitoring.RecordDBQuery("list", model.Notification{}.TableName(), time.Since(start))
	if err != nil {
		return nil, dberr.Wrap(opListNotifications, err)
	}

	if list == nil {
		list = []model.Notification{}
	}
	return list, nil
}
