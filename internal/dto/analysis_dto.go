package dto

import (
	"time"

	"github.com/google/uuid"
)

// GenerateAnalysisRequest starts an analysis over one period. Contents is
// only needed when the user's entries are encrypted: the server cannot read
// envelopes, so the client decrypts locally and submits the plaintext of the
// period's entries alongside their ids. For plaintext users the server loads
// the entries itself and Contents stays empty.
type GenerateAnalysisRequest struct {
	Period      string        `json:"period" validate:"required,oneof=day week month"`
	PeriodStart string        `json:"period_start" validate:"required,datetime=2006-01-02"`
	Contents    []EntryDigest `json:"contents" validate:"omitempty,dive"`
}

type EntryDigest struct {
	Id      uuid.UUID `json:"id" validate:"required"`
	Content string    `json:"content" validate:"required"`
}

// UpdateAnalysisRequest overwrites a stored analysis body. Encrypted users
// use it to replace the generated plaintext with an envelope; the server
// stores whatever it gets.
type UpdateAnalysisRequest struct {
	Content         string `json:"content" validate:"required"`
	ContentEncoding string `json:"content_encoding" validate:"omitempty,oneof=plaintext aes256gcm"`
}

type AnalysisResponse struct {
	Id              uuid.UUID   `json:"id"`
	Period          string      `json:"period"`
	PeriodStart     string      `json:"period_start"`
	Content         string      `json:"content"`
	ContentEncoding string      `json:"content_encoding"`
	SourceEntryIds  []uuid.UUID `json:"source_entry_ids"`
	Model           string      `json:"model"`
	Cached          bool        `json:"cached"`
	CreatedAt       time.Time   `json:"created_at"`
}
