package contract

import (
	"context"

	"daily-journal-be/internal/entity"
	"daily-journal-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AnalysisRepository interface {
	Create(ctx context.Context, analysis *entity.PeriodAnalysis) error
	Update(ctx context.Context, analysis *entity.PeriodAnalysis) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PeriodAnalysis, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PeriodAnalysis, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
