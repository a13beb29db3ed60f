package specification

import (
	"time"

	"gorm.io/gorm"
)

// ByPeriod filters period analyses by type and start date.
type ByPeriod struct {
	PeriodType  string
	PeriodStart time.Time
}

func (s ByPeriod) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("period_type = ? AND period_start = ?",
		s.PeriodType, s.PeriodStart.Format("2006-01-02"))
}

// PeriodStartBetween filters analyses whose period start falls in a range.
// Used by the consumer to invalidate summaries covering a changed entry.
type PeriodStartBetween struct {
	From time.Time
	To   time.Time
}

func (s PeriodStartBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("period_start BETWEEN ? AND ?",
		s.From.Format("2006-01-02"), s.To.Format("2006-01-02"))
}
