package services

import (
	"context"
	"time"

	"renew-admin/model"
	"renew-admin/pkg/database"
	"renew-admin/pkg/dberr"
	"renew-admin/pkg/monitoring"
)

const opListRenewHistories = "renew_histories.list"

// RenewHistoryService 续费记录查询服务
type RenewHistoryService struct {
	provider *database.Provider
}

func NewRenewHistoryService(provider *database.Provider) *RenewHistoryService {
	return &RenewHistoryService{provider: provider}
}

// ListRenewHistories 查询全部续费记录，不做过滤
func (s *RenewHistoryService) ListRenewHistories(ctx context.Context) ([]model.RenewHistory, error) {
	db, err := s.provider.DB()
	if err != nil {
		return nil, dberr.Connection(opListRenewHistories, err)
	}

	start := time.Now()
	var list []model.RenewHistory
	err = db.WithContext(ctx).Find(&list).Error
	monitoring.RecordDBQuery("list", model.RenewHistory{}.TableName(), time.Since(start))
	if err != nil {
		return nil, dberr.Wrap(opListRenewHistories, err)
	}

	if list == nil {
		list = []model.RenewHistory{}
	}
	return list, nil
}
