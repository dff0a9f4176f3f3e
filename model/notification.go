package model

import "time"

// Notification 续费提醒通知，读取时预加载所属服务
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ServiceID uint       `gorm:"index;not null" json:"service_id"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Message   string     `gorm:"type:text" json:"message"`
	Type      string     `gorm:"size:32" json:"type"` // renewal_due, renewed, expired
	IsRead    bool       `gorm:"default:false" json:"is_read"`
	NotifyAt  *time.Time `json:"notify_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Service *Service `gorm:"foreignKey:ServiceID" json:"service"`
}

func (Notification) TableName() string {
	return "notifications"
}
