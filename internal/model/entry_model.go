package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Entry struct {
	Id     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId uuid.UUID `gorm:"type:uuid;not null;index:idx_entries_user_date,priority:1"`
	// Content is opaque: plaintext or an encrypted envelope, per ContentEncoding.
	Content         string    `gorm:"type:text"`
	ContentEncoding string    `gorm:"type:varchar(32);not null;default:'plaintext'"`
	EntryDate       time.Time `gorm:"type:date;not null;index:idx_entries_user_date,priority:2"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Entry) TableName() string {
	return "entries"
}
