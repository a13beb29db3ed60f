package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- User Management ---

type AdminUserListRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
	Role   string `query:"role"`
	Status string `query:"status"`
}

type UserListResponse struct {
	Id                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	FullName          string    `json:"full_name"`
	Role              string    `json:"role"`
	Status            string    `json:"status"`
	EncryptionEnabled bool      `json:"encryption_enabled"`
	CreatedAt         time.Time `json:"created_at"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active pending blocked"`
	Reason string `json:"reason,omitempty"`
}

// --- Dashboard ---

// DashboardStatsResponse is the aggregate view for the admin landing page.
// EncryptedUsers counts accounts with client-side encryption turned on, the
// rest of the entry stats only ever see opaque blobs for those users.
type DashboardStatsResponse struct {
	TotalUsers       int64 `json:"total_users"`
	ActiveUsers      int64 `json:"active_users"`
	PendingUsers     int64 `json:"pending_users"`
	BlockedUsers     int64 `json:"blocked_users"`
	EncryptedUsers   int64 `json:"encrypted_users"`
	TotalEntries     int64 `json:"total_entries"`
	EntriesToday     int64 `json:"entries_today"`
	AnalysesComputed int64 `json:"analyses_computed"`
}
