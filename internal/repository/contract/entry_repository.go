package contract

import (
	"context"
	"time"

	"daily-journal-be/internal/entity"
	"daily-journal-be/internal/repository/specification"

	"github.com/google/uuid"
)

// DailyCount is one calendar day's entry count, for the calendar view.
type DailyCount struct {
	Date  time.Time
	Count int64
}

type EntryRepository interface {
	Create(ctx context.Context, entry *entity.Entry) error
	Update(ctx context.Context, entry *entity.Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error // Hard delete all
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Entry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Entry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// CountPerDay groups entry counts by entry_date over an inclusive range.
	CountPerDay(ctx context.Context, userId uuid.UUID, from, to time.Time) ([]DailyCount, error)
}
