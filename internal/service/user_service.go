package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daily-journal-be/internal/dto"
	"daily-journal-be/internal/repository/specification"
	"daily-journal-be/internal/repository/unitofwork"

	"daily-journal-be/pkg/events"
	pktNats "daily-journal-be/pkg/nats"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) error
	SetEncryption(ctx context.Context, userId uuid.UUID, req *dto.SetEncryptionRequest) (*dto.SetEncryptionResponse, error)
	DeleteAccount(ctx context.Context, userId uuid.UUID) error
}

type userService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher) IUserService {
	return &userService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
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

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	user.FullName = req.FullName
	if req.Email != "" && req.Email != user.Email {
		existing, _ := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
		if existing != nil {
			return errors.New("email already in use")
		}
		user.Email = req.Email
	}
	user.UpdatedAt = time.Now()

	return uow.UserRepository().Update(ctx, user)
}

// SetEncryption flips the client-side encryption flag after re-verifying the
// password. Enabling does not touch stored entries: the client re-encrypts
// its history at its own pace and tags each rewrite. Disabling likewise only
// stops the expectation of envelopes for new writes.
func (s *userService) SetEncryption(ctx context.Context, userId uuid.UUID, req *dto.SetEncryptionRequest) (*dto.SetEncryptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	if user.PasswordHash == nil {
		return nil, errors.New("account has no password set")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid password")
	}

	if user.EncryptionEnabled != req.Enabled {
		if err := uow.UserRepository().SetEncryptionEnabled(ctx, userId, req.Enabled); err != nil {
			return nil, err
		}

		if s.eventPublisher != nil {
			evt := events.BaseEvent{
				Type: events.TypeEncryptionToggled,
				Data: map[string]interface{}{
					"user_id": userId,
					"enabled": req.Enabled,
				},
				OccurredAt: time.Now(),
			}
			if err := s.eventPublisher.Publish(ctx, evt); err != nil {
				fmt.Printf("[WARN] Failed to publish ENCRYPTION_TOGGLED event: %v\n", err)
			}
		}
	}

	return &dto.SetEncryptionResponse{
		EncryptionEnabled: req.Enabled,
		EncryptionSalt:    user.EncryptionSalt,
	}, nil
}

func (s *userService) DeleteAccount(ctx context.Context, userId uuid.UUID) error {
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

	return uow.Commit()
}
