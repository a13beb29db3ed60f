package specification

import (
	"time"

	"gorm.io/gorm"
)

// ByEntryDate filters entries belonging to one calendar day.
type ByEntryDate struct {
	Date time.Time
}

func (s ByEntryDate) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("entry_date = ?", s.Date.Format("2006-01-02"))
}

// EntryDateBetween filters entries in an inclusive date range.
type EntryDateBetween struct {
	From time.Time
	To   time.Time
}

func (s EntryDateBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("entry_date BETWEEN ? AND ?",
		s.From.Format("2006-01-02"), s.To.Format("2006-01-02"))
}

// CreatedToday filters rows created since local midnight (admin stats).
type CreatedToday struct{}

func (s CreatedToday) Apply(db *gorm.DB) *gorm.DB {
	midnight := time.Now().Truncate(24 * time.Hour)
	return db.Where("created_at >= ?", midnight)
}

// ContentEncodingIs filters entries by their storage encoding. Server-side
// analysis only loads plaintext rows, envelopes are unreadable here.
type ContentEncodingIs struct {
	Encoding string
}

func (s ContentEncodingIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content_encoding = ?", s.Encoding)
}
