package unitofwork

import (
	"context"

	"daily-journal-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	EntryRepository() contract.EntryRepository
	AnalysisRepository() contract.AnalysisRepository
}
