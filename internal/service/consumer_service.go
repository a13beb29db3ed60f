package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"daily-journal-be/internal/dto"
	"daily-journal-be/internal/repository/specification"
	"daily-journal-be/internal/repository/unitofwork"
	"daily-journal-be/pkg/cache"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the entry-changed topic and invalidates analyses
// that could cover the changed entry: the user's Redis namespace plus the
// stored rows whose period can contain the entry date.
type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	uowFactory    unitofwork.RepositoryFactory
	analysisCache *cache.AnalysisCache
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	analysisCache *cache.AnalysisCache,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		uowFactory:    uowFactory,
		analysisCache: analysisCache,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEntryChangedMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Invalidating analyses for user %s (entry %s)", payload.UserId, payload.EntryId)

	if err := cs.analysisCache.InvalidateUser(ctx, payload.UserId); err != nil {
		log.Printf("[ERROR] Failed to invalidate analysis cache for user %s: %v", payload.UserId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	entryDate, err := time.Parse("2006-01-02", payload.EntryDate)
	if err != nil {
		// Cache is already cleared, nothing more we can target
		msg.Ack()
		return
	}

	// A month analysis starts at most 30 days before any date it covers, so
	// this window catches every period that can include the entry. Slight
	// over-invalidation is fine, the next Generate recomputes.
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	stale, err := uow.AnalysisRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: payload.UserId},
		specification.PeriodStartBetween{From: entryDate.AddDate(0, 0, -30), To: entryDate},
	)
	if err != nil {
		log.Printf("[ERROR] Failed to load stale analyses for user %s: %v", payload.UserId, err)
		msg.Nack()
		return
	}

	for _, analysis := range stale {
		if err := uow.AnalysisRepository().Delete(ctx, analysis.Id); err != nil {
			log.Printf("[ERROR] Failed to delete stale analysis %s: %v", analysis.Id, err)
			msg.Nack()
			return
		}
	}

	msg.Ack()
}
