package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContentEncoding tags how a content payload is stored. The tag, not content
// sniffing, decides whether the client must decrypt a stored row. Payloads
// written before encryption was enabled stay "plaintext" forever.
type ContentEncoding string

const (
	EncodingPlaintext ContentEncoding = "plaintext"
	EncodingEncrypted ContentEncoding = "aes256gcm"
)

// Entry is one timestamped journal note. Content is opaque to the server:
// plaintext or an encrypted envelope, per ContentEncoding.
type Entry struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	Content         string
	ContentEncoding ContentEncoding
	EntryDate       time.Time // calendar day the entry belongs to
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
