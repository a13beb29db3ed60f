package dashboard

import (
	"context"

	"daily-journal-be/internal/dto"
	"daily-journal-be/internal/entity"
	"daily-journal-be/internal/pkg/logger"
	"daily-journal-be/internal/repository/specification"
	"daily-journal-be/internal/repository/unitofwork"
)

// Aggregator handles dashboard statistics
type Aggregator struct {
	logger logger.ILogger
}

// NewAggregator creates a new dashboard aggregator
func NewAggregator(logger logger.ILogger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// GetStats retrieves dashboard statistics
func (a *Aggregator) GetStats(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.DashboardStatsResponse, error) {
	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	activeUsers, err := uow.UserRepository().CountByStatus(ctx, string(entity.UserStatusActive))
	if err != nil {
		return nil, err
	}

	pendingUsers, err := uow.UserRepository().CountByStatus(ctx, string(entity.UserStatusPending))
	if err != nil {
		return nil, err
	}

	blockedUsers, err := uow.UserRepository().CountByStatus(ctx, string(entity.UserStatusBlocked))
	if err != nil {
		return nil, err
	}

	encryptedUsers, err := uow.UserRepository().Count(ctx, specification.EncryptionEnabled{Enabled: true})
	if err != nil {
		return nil, err
	}

	totalEntries, err := uow.EntryRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	entriesToday, err := uow.EntryRepository().Count(ctx, specification.CreatedToday{})
	if err != nil {
		return nil, err
	}

	analyses, err := uow.AnalysisRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStatsResponse{
		TotalUsers:       totalUsers,
		ActiveUsers:      int64(activeUsers),
		PendingUsers:     int64(pendingUsers),
		BlockedUsers:     int64(blockedUsers),
		EncryptedUsers:   encryptedUsers,
		TotalEntries:     totalEntries,
		EntriesToday:     entriesToday,
		AnalysesComputed: analyses,
	}, nil
}
