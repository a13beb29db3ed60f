package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daily-journal-be/internal/dto"
	"daily-journal-be/internal/entity"
	"daily-journal-be/internal/pkg/logger"
	"daily-journal-be/internal/repository/specification"
	"daily-journal-be/internal/repository/unitofwork"
	"daily-journal-be/pkg/admin/dashboard"

	"daily-journal-be/pkg/events"
	pktNats "daily-journal-be/pkg/nats"

	"github.com/google/uuid"
)

type IAdminService interface {
	GetDashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
	GetAllUsers(ctx context.Context, req *dto.AdminUserListRequest) ([]*dto.UserListResponse, error)
	GetUserDetail(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateUserStatus(ctx context.Context, userId uuid.UUID, req *dto.UpdateUserStatusRequest) error
	DeleteUser(ctx context.Context, userId uuid.UUID) error
	GetSystemLogs(ctx context.Context, level string, page, limit int) ([]logger.LogEntry, error)
	GetLogDetail(ctx context.Context, logId string) (*logger.LogEntry, error)
}

type adminService struct {
	uowFactory          unitofwork.RepositoryFactory
	logger              logger.ILogger
	dashboardAggregator *dashboard.Aggregator
	eventPublisher      *pktNats.Publisher
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
	dashboardAggregator *dashboard.Aggregator,
	eventPublisher *pktNats.Publisher,
) IAdminService {
	return &adminService{
		uowFactory:          uowFactory,
		logger:              logger,
		dashboardAggregator: dashboardAggregator,
		eventPublisher:      eventPublisher,
	}
}

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.dashboardAggregator.GetStats(ctx, uow)
}

func (s *adminService) GetAllUsers(ctx context.Context, req *dto.AdminUserListRequest) ([]*dto.UserListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	if req.Search != "" {
		raw, err := uow.UserRepository().SearchUsers(ctx, req.Search, limit, offset)
		if err != nil {
			return nil, err
		}
		return usersToListResponse(raw), nil
	}

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	}
	if req.Status != "" {
		specs = append(specs, specification.ByStatus{Status: req.Status})
	}
	raw, err := uow.UserRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return usersToListResponse(raw), nil
}

func (s *adminService) GetUserDetail(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	return &dto.UserProfileResponse{
		Id:                user.Id,
		Email:             user.Email,
		FullName:          user.FullName,
		Role:              string(user.Role),
		Status:            string(user.Status),
		EncryptionSalt:    user.EncryptionSalt,
		EncryptionEnabled: user.EncryptionEnabled,
		AiDailyUsage:      user.AiDailyUsage,
		CreatedAt:         user.CreatedAt,
	}, nil
}

func (s *adminService) UpdateUserStatus(ctx context.Context, userId uuid.UUID, req *dto.UpdateUserStatusRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("user not found")
	}

	if err := uow.UserRepository().UpdateStatus(ctx, userId, req.Status); err != nil {
		return err
	}

	s.logger.Info("admin", "user status updated", map[string]interface{}{
		"user_id": userId,
		"status":  req.Status,
		"reason":  req.Reason,
	})

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeUserStatusChanged,
			Data: map[string]interface{}{
				"user_id": userId,
				"status":  req.Status,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("admin", "failed to publish status change event", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (s *adminService) DeleteUser(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.AnalysisRepository().DeleteAllByUserIdUnscoped(ctx, userId); err != nil {
		return err
	}
	if err := uow.EntryRepository().DeleteAllByUserIdUnscoped(ctx, userId); err != nil {
		return err
	}
	if err := uow.UserRepository().DeleteUnscoped(ctx, userId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Warn("admin", "user purged", map[string]interface{}{"user_id": userId})
	return nil
}

func (s *adminService) GetSystemLogs(ctx context.Context, level string, page, limit int) ([]logger.LogEntry, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.logger.GetLogs(level, limit, (page-1)*limit)
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*logger.LogEntry, error) {
	return s.logger.GetLogById(logId)
}

func usersToListResponse(users []*entity.User) []*dto.UserListResponse {
	out := make([]*dto.UserListResponse, len(users))
	for i, u := range users {
		out[i] = &dto.UserListResponse{
			Id:                u.Id,
			Email:             u.Email,
			FullName:          u.FullName,
			Role:              string(u.Role),
			Status:            string(u.Status),
			EncryptionEnabled: u.EncryptionEnabled,
			CreatedAt:         u.CreatedAt,
		}
	}
	return out
}
