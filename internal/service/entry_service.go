package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"daily-journal-be/internal/dto"
	"daily-journal-be/internal/entity"
	"daily-journal-be/internal/repository/specification"
	"daily-journal-be/internal/repository/unitofwork"
	"daily-journal-be/pkg/events"
	pktNats "daily-journal-be/pkg/nats"

	"github.com/google/uuid"
)

type IEntryService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateEntryRequest) (*dto.CreateEntryResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowEntryResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateEntryRequest) (*dto.UpdateEntryResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	ListByDate(ctx context.Context, userId uuid.UUID, date time.Time) (*dto.ListEntriesResponse, error)
	ListByRange(ctx context.Context, userId uuid.UUID, from, to time.Time) (*dto.ListEntriesResponse, error)
	CalendarSummary(ctx context.Context, userId uuid.UUID, from, to time.Time) (*dto.CalendarSummaryResponse, error)
}

type entryService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewEntryService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) IEntryService {
	return &entryService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

// normalizeEncoding defaults an absent tag to plaintext. Older clients wrote
// entries before the tag existed, new writes always carry one.
func normalizeEncoding(raw string) entity.ContentEncoding {
	if raw == string(entity.EncodingEncrypted) {
		return entity.EncodingEncrypted
	}
	return entity.EncodingPlaintext
}

func (c *entryService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateEntryRequest) (*dto.CreateEntryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	entryDate, err := time.Parse("2006-01-02", req.EntryDate)
	if err != nil {
		return nil, errors.New("invalid entry_date, expected YYYY-MM-DD")
	}

	entry := entity.Entry{
		Id:              uuid.New(),
		UserId:          userId,
		Content:         req.Content,
		ContentEncoding: normalizeEncoding(req.ContentEncoding),
		EntryDate:       entryDate,
		CreatedAt:       time.Now(),
	}

	if err := uow.EntryRepository().Create(ctx, &entry); err != nil {
		return nil, err
	}

	c.notifyChanged(ctx, events.TypeEntryCreated, &entry)

	return &dto.CreateEntryResponse{
		Id: entry.Id,
	}, nil
}

func (c *entryService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowEntryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	entry, err := uow.EntryRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil // Not found
	}

	resp := toShowEntryResponse(entry)
	return &resp, nil
}

func (c *entryService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateEntryRequest) (*dto.UpdateEntryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	entry, err := uow.EntryRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, errors.New("entry not found")
	}

	now := time.Now()
	entry.Content = req.Content
	entry.ContentEncoding = normalizeEncoding(req.ContentEncoding)
	entry.UpdatedAt = &now

	if err := uow.EntryRepository().Update(ctx, entry); err != nil {
		return nil, err
	}

	c.notifyChanged(ctx, events.TypeEntryUpdated, entry)

	return &dto.UpdateEntryResponse{Id: entry.Id}, nil
}

func (c *entryService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	entry, err := uow.EntryRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if entry == nil {
		return errors.New("entry not found")
	}

	if err := uow.EntryRepository().Delete(ctx, id); err != nil {
		return err
	}

	c.notifyChanged(ctx, events.TypeEntryDeleted, entry)
	return nil
}

func (c *entryService) ListByDate(ctx context.Context, userId uuid.UUID, date time.Time) (*dto.ListEntriesResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.EntryRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByEntryDate{Date: date},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	return toListEntriesResponse(entries), nil
}

func (c *entryService) ListByRange(ctx context.Context, userId uuid.UUID, from, to time.Time) (*dto.ListEntriesResponse, error) {
	if to.Before(from) {
		return nil, errors.New("invalid range: to is before from")
	}
	uow := c.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.EntryRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.EntryDateBetween{From: from, To: to},
		specification.OrderBy{Field: "entry_date", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	return toListEntriesResponse(entries), nil
}

func (c *entryService) CalendarSummary(ctx context.Context, userId uuid.UUID, from, to time.Time) (*dto.CalendarSummaryResponse, error) {
	if to.Before(from) {
		return nil, errors.New("invalid range: to is before from")
	}
	uow := c.uowFactory.NewUnitOfWork(ctx)
	counts, err := uow.EntryRepository().CountPerDay(ctx, userId, from, to)
	if err != nil {
		return nil, err
	}

	days := make([]dto.CalendarDaySummary, len(counts))
	for i, dc := range counts {
		days[i] = dto.CalendarDaySummary{
			Date:  dc.Date.Format("2006-01-02"),
			Count: int(dc.Count),
		}
	}
	return &dto.CalendarSummaryResponse{Days: days}, nil
}

// notifyChanged fans out an entry change: the in-process queue drives cache
// invalidation, the NATS event feeds external consumers. Both are best
// effort, the write already committed.
func (c *entryService) notifyChanged(ctx context.Context, eventType string, entry *entity.Entry) {
	if c.publisherService != nil {
		msgPayload := dto.PublishEntryChangedMessage{
			EntryId:   entry.Id,
			UserId:    entry.UserId,
			EntryDate: entry.EntryDate.Format("2006-01-02"),
		}
		msgJson, err := json.Marshal(msgPayload)
		if err == nil {
			if err := c.publisherService.Publish(ctx, msgJson); err != nil {
				fmt.Printf("[WARN] Failed to publish entry change message: %v\n", err)
			}
		}
	}

	if c.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: eventType,
			Data: map[string]interface{}{
				"entry_id":   entry.Id,
				"user_id":    entry.UserId,
				"entry_date": entry.EntryDate.Format("2006-01-02"),
			},
			OccurredAt: time.Now(),
		}
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
		}
	}
}

func toShowEntryResponse(entry *entity.Entry) dto.ShowEntryResponse {
	return dto.ShowEntryResponse{
		Id:              entry.Id,
		Content:         entry.Content,
		ContentEncoding: string(entry.ContentEncoding),
		EntryDate:       entry.EntryDate.Format("2006-01-02"),
		CreatedAt:       entry.CreatedAt,
		UpdatedAt:       entry.UpdatedAt,
	}
}

func toListEntriesResponse(entries []*entity.Entry) *dto.ListEntriesResponse {
	out := make([]dto.ShowEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = toShowEntryResponse(e)
	}
	return &dto.ListEntriesResponse{
		Entries: out,
		Total:   len(out),
	}
}
