package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daily-journal-be/internal/dto"
	"daily-journal-be/internal/entity"
	"daily-journal-be/internal/pkg/mailer"
	"daily-journal-be/internal/repository/memory"
	"daily-journal-be/internal/repository/specification"
	"daily-journal-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IPasswordlessService interface {
	RequestLoginLink(ctx context.Context, req *dto.RequestLoginLinkRequest) error
	ConsumeLoginLink(ctx context.Context, req *dto.ConsumeLoginLinkRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
}

// passwordlessService implements magic-link login. It stays behind a config
// flag: password login is the primary path because the content key is
// derived from the password, a user who only ever logs in via link cannot
// decrypt anything. Disabled unless PASSWORDLESS_LOGIN_ENABLED is set.
type passwordlessService struct {
	enabled      bool
	uowFactory   unitofwork.RepositoryFactory
	tickets      *memory.LoginTicketRepository
	emailService mailer.IEmailService
}

func NewPasswordlessService(
	enabled bool,
	uowFactory unitofwork.RepositoryFactory,
	tickets *memory.LoginTicketRepository,
	emailService mailer.IEmailService,
) IPasswordlessService {
	return &passwordlessService{
		enabled:      enabled,
		uowFactory:   uowFactory,
		tickets:      tickets,
		emailService: emailService,
	}
}

var ErrPasswordlessDisabled = errors.New("passwordless login is not enabled")

func (s *passwordlessService) RequestLoginLink(ctx context.Context, req *dto.RequestLoginLinkRequest) error {
	if !s.enabled {
		return ErrPasswordlessDisabled
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil || user == nil {
		// Don't leak exists
		return nil
	}
	if user.Status != entity.UserStatusActive {
		return nil
	}

	token := uuid.New().String()
	s.tickets.Save(&memory.LoginTicket{
		Token:     token,
		UserId:    user.Id,
		Email:     user.Email,
		CreatedAt: time.Now(),
	})

	go func() {
		if emailErr := s.emailService.SendLoginLink(user.Email, token); emailErr != nil {
			fmt.Printf("Error sending login link email: %v\n", emailErr)
		}
	}()

	return nil
}

func (s *passwordlessService) ConsumeLoginLink(ctx context.Context, req *dto.ConsumeLoginLinkRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	if !s.enabled {
		return nil, ErrPasswordlessDisabled
	}

	ticket, found := s.tickets.Get(req.Token)
	if !found {
		return nil, errors.New("invalid or expired login link")
	}
	// Single use
	s.tickets.Delete(req.Token)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: ticket.UserId})
	if err != nil || user == nil {
		return nil, errors.New("invalid or expired login link")
	}
	if user.Status == entity.UserStatusBlocked {
		return nil, errors.New("user account is blocked")
	}

	signedToken, err := signAccessToken(user, time.Hour*24)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: signedToken,
		User: dto.UserDTO{
			Id:                user.Id,
			Email:             user.Email,
			FullName:          user.FullName,
			Role:              string(user.Role),
			EncryptionSalt:    user.EncryptionSalt,
			EncryptionEnabled: user.EncryptionEnabled,
		},
	}, nil
}
