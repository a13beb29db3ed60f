package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PeriodAnalysis struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID `gorm:"type:uuid;not null;index:idx_analyses_user_period,priority:1"`
	PeriodType      string    `gorm:"type:varchar(16);not null;index:idx_analyses_user_period,priority:2"`
	PeriodStart     time.Time `gorm:"type:date;not null;index:idx_analyses_user_period,priority:3"`
	Content         string    `gorm:"type:text"`
	ContentEncoding string    `gorm:"type:varchar(32);not null;default:'plaintext'"`
	SourceEntryIds  datatypes.JSON `gorm:"type:jsonb"`
	Model           string         `gorm:"type:varchar(100)"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (PeriodAnalysis) TableName() string {
	return "period_analyses"
}
