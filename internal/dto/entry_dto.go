package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateEntryRequest accepts content as an opaque string. When the user has
// encryption enabled the client sends an envelope and tags it "aes256gcm",
// otherwise it sends plaintext tagged "plaintext". The server never inspects
// the content either way.
type CreateEntryRequest struct {
	Content         string `json:"content" validate:"required"`
	ContentEncoding string `json:"content_encoding" validate:"omitempty,oneof=plaintext aes256gcm"`
	EntryDate       string `json:"entry_date" validate:"required,datetime=2006-01-02"`
}

type CreateEntryResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowEntryResponse struct {
	Id              uuid.UUID  `json:"id"`
	Content         string     `json:"content"`
	ContentEncoding string     `json:"content_encoding"`
	EntryDate       string     `json:"entry_date"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

type UpdateEntryRequest struct {
	Id              uuid.UUID
	Content         string `json:"content" validate:"required"`
	ContentEncoding string `json:"content_encoding" validate:"omitempty,oneof=plaintext aes256gcm"`
}

type UpdateEntryResponse struct {
	Id uuid.UUID `json:"id"`
}

type ListEntriesResponse struct {
	Entries []ShowEntryResponse `json:"entries"`
	Total   int                 `json:"total"`
}

// CalendarDaySummary reports how many entries exist per day, used by the
// month view to mark days that have at least one entry.
type CalendarDaySummary struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type CalendarSummaryResponse struct {
	Days []CalendarDaySummary `json:"days"`
}

// PublishEntryChangedMessage is the internal queue payload emitted whenever
// an entry is created, updated or deleted. The consumer invalidates the
// owner's cached analyses.
type PublishEntryChangedMessage struct {
	EntryId   uuid.UUID `json:"entry_id"`
	UserId    uuid.UUID `json:"user_id"`
	EntryDate string    `json:"entry_date"`
}
