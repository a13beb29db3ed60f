package specification

import (
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ByToken struct {
	Token string
}

func (s ByToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token = ?", s.Token)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// EncryptionEnabled filters users by the encryption flag (admin stats).
type EncryptionEnabled struct {
	Enabled bool
}

func (s EncryptionEnabled) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("encryption_enabled = ?", s.Enabled)
}
