package admin

import (
	"context"

	"renew-admin/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	opListRenewHistories     = "renew_histories.list"
	msgRenewHistoriesFailure = "Failed to fetch renew histories"
)

// RenewHistoryLister 续费记录查询接口
type RenewHistoryLister interface {
	ListRenewHistories(ctx context.Context) ([]model.RenewHistory, error)
}

// RenewHistoryController 续费记录控制器
type RenewHistoryController struct {
	svc RenewHistoryLister
	log *zap.Logger
}

func NewRenewHistoryController(svc RenewHistoryLister, log *zap.Logger) *RenewHistoryController {
	if log == nil {
		log = zap.NewNop()
	}
	return &RenewHistoryController{svc: svc, log: log}
}

// List GET /api/renew-histories
func (ctl *RenewHistoryController) List(c *gin.Context) {
	list, err := ctl.svc.ListRenewHistories(c.Request.Context())
	if err == nil {
		err = writeList(c, opListRenewHistories, list)
	}
	if err != nil {
		failRead(c, ctl.log, opListRenewHistories, msgRenewHistoriesFailure, err)
	}
}
