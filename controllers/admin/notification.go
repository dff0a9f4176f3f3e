package admin

import (
	"context"

	"renew-admin/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	opListNotifications     = "notifications.list"
	msgNotificationsFailure = "Failed to fetch notifications"
)

// NotificationLister 通知查询接口
type NotificationLister interface {
	ListNotifications(ctx context.Context) ([]model.Notification, error)
}

// NotificationController 通知控制器
type NotificationController struct {
	svc NotificationLister
	log *zap.Logger
}

func NewNotificationController(svc NotificationLister, log *zap.Logger) *NotificationController {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationController{svc: svc, log: log}
}

// List GET /api/notifications
func (ctl *NotificationController) List(c *gin.Context) {
	list, err := ctl.svc.ListNotifications(c.Request.Context())
	if err == nil {
		err = writeList(c, opListNotifications, list)
	}
	if err != nil {
		failRead(c, ctl.log, opListNotifications, msgNotificationsFailure, err)
	}
}
