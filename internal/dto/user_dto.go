package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	FullName          string    `json:"full_name"`
	Role              string    `json:"role"`
	Status            string    `json:"status"`
	EncryptionSalt    string    `json:"encryption_salt"`
	EncryptionEnabled bool      `json:"encryption_enabled"`
	AiDailyUsage      int       `json:"ai_daily_usage"`
	CreatedAt         time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// SetEncryptionRequest toggles client-side encryption. The password confirm
// guards against flipping the flag from a stolen session: re-encrypting a
// whole history is not something to trigger by accident. Enabling only flips
// the flag, the client is responsible for migrating existing entries.
type SetEncryptionRequest struct {
	Enabled  bool   `json:"enabled"`
	Password string `json:"password" validate:"required"`
}

type SetEncryptionResponse struct {
	EncryptionEnabled bool   `json:"encryption_enabled"`
	EncryptionSalt    string `json:"encryption_salt"`
}
