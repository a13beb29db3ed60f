package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"daily-journal-be/internal/dto"
	"daily-journal-be/internal/entity"
	"daily-journal-be/internal/repository/specification"
	"daily-journal-be/internal/repository/unitofwork"
	"daily-journal-be/pkg/cache"
	"daily-journal-be/pkg/llm"

	"github.com/google/uuid"
)

const defaultAiDailyLimit = 20

type IAnalysisService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateAnalysisRequest) (*dto.AnalysisResponse, error)
	Show(ctx context.Context, userId uuid.UUID, period string, periodStart time.Time) (*dto.AnalysisResponse, error)
	List(ctx context.Context, userId uuid.UUID, period string) ([]*dto.AnalysisResponse, error)
	UpdateContent(ctx context.Context, userId, analysisId uuid.UUID, req *dto.UpdateAnalysisRequest) (*dto.AnalysisResponse, error)
}

type analysisService struct {
	uowFactory    unitofwork.RepositoryFactory
	llmProvider   llm.LLMProvider
	modelName     string
	analysisCache *cache.AnalysisCache
}

func NewAnalysisService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	modelName string,
	analysisCache *cache.AnalysisCache,
) IAnalysisService {
	return &analysisService{
		uowFactory:    uowFactory,
		llmProvider:   llmProvider,
		modelName:     modelName,
		analysisCache: analysisCache,
	}
}

// periodRange expands a period start into its inclusive date range.
func periodRange(period entity.AnalysisPeriod, start time.Time) (time.Time, time.Time) {
	switch period {
	case entity.PeriodWeek:
		return start, start.AddDate(0, 0, 6)
	case entity.PeriodMonth:
		firstOfMonth := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
		return firstOfMonth, firstOfMonth.AddDate(0, 1, -1)
	default:
		return start, start
	}
}

func (s *analysisService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateAnalysisRequest) (*dto.AnalysisResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	period := entity.AnalysisPeriod(req.Period)
	periodStart, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		return nil, errors.New("invalid period_start, expected YYYY-MM-DD")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil {
		return nil, errors.New("user not found")
	}

	// 1. Cache first, then DB. A stored analysis is only regenerated when
	// the client resubmits after an entry change cleared the cache and row.
	if cached, _ := s.analysisCache.Get(ctx, userId, period, periodStart); cached != nil {
		return toAnalysisResponse(cached, true), nil
	}

	existing, err := uow.AnalysisRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByPeriod{PeriodType: string(period), PeriodStart: periodStart},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		_ = s.analysisCache.Set(ctx, existing)
		return toAnalysisResponse(existing, true), nil
	}

	// 2. Daily usage limit
	if err := s.checkAndBumpUsage(ctx, uow, user); err != nil {
		return nil, err
	}

	// 3. Collect the texts to analyze. Encrypted users decrypt locally and
	// send the plaintext digests, the server cannot open envelopes.
	var texts []string
	var sourceIds []uuid.UUID

	if len(req.Contents) > 0 {
		for _, digest := range req.Contents {
			texts = append(texts, digest.Content)
			sourceIds = append(sourceIds, digest.Id)
		}
	} else {
		if user.EncryptionEnabled {
			return nil, errors.New("encrypted account: decrypt entries locally and submit their contents")
		}
		from, to := periodRange(period, periodStart)
		entries, err := uow.EntryRepository().FindAll(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.EntryDateBetween{From: from, To: to},
			specification.ContentEncodingIs{Encoding: string(entity.EncodingPlaintext)},
			specification.OrderBy{Field: "entry_date", Desc: false},
		)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			texts = append(texts, e.Content)
			sourceIds = append(sourceIds, e.Id)
		}
	}

	if len(texts) == 0 {
		return nil, errors.New("no entries found for this period")
	}

	// 4. Ask the model
	content, err := s.llmProvider.Generate(ctx, buildAnalysisPrompt(period, texts),
		llm.WithSystemPrompt(analysisSystemPrompt),
		llm.WithTemperature(0.5),
	)
	if err != nil {
		return nil, fmt.Errorf("analysis generation failed: %w", err)
	}

	// 5. Persist and cache
	analysis := &entity.PeriodAnalysis{
		Id:              uuid.New(),
		UserId:          userId,
		PeriodType:      period,
		PeriodStart:     periodStart,
		Content:         content,
		ContentEncoding: entity.EncodingPlaintext,
		SourceEntryIds:  sourceIds,
		Model:           s.modelName,
		CreatedAt:       time.Now(),
	}

	if err := uow.AnalysisRepository().Create(ctx, analysis); err != nil {
		return nil, err
	}
	_ = s.analysisCache.Set(ctx, analysis)

	return toAnalysisResponse(analysis, false), nil
}

func (s *analysisService) Show(ctx context.Context, userId uuid.UUID, period string, periodStart time.Time) (*dto.AnalysisResponse, error) {
	if cached, _ := s.analysisCache.Get(ctx, userId, entity.AnalysisPeriod(period), periodStart); cached != nil {
		return toAnalysisResponse(cached, true), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	analysis, err := uow.AnalysisRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByPeriod{PeriodType: period, PeriodStart: periodStart},
	)
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, nil // Not found
	}

	_ = s.analysisCache.Set(ctx, analysis)
	return toAnalysisResponse(analysis, false), nil
}

func (s *analysisService) List(ctx context.Context, userId uuid.UUID, period string) ([]*dto.AnalysisResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "period_start", Desc: true},
	}

	analyses, err := uow.AnalysisRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.AnalysisResponse, 0, len(analyses))
	for _, a := range analyses {
		if period != "" && string(a.PeriodType) != period {
			continue
		}
		out = append(out, toAnalysisResponse(a, false))
	}
	return out, nil
}

// UpdateContent replaces the stored analysis body. Encrypted users call this
// after Generate to swap the model's plaintext for an envelope; the server
// stores the new content opaquely and refreshes the cache.
func (s *analysisService) UpdateContent(ctx context.Context, userId, analysisId uuid.UUID, req *dto.UpdateAnalysisRequest) (*dto.AnalysisResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	analysis, err := uow.AnalysisRepository().FindOne(ctx,
		specification.ByID{ID: analysisId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, nil // Not found
	}

	now := time.Now()
	analysis.Content = req.Content
	analysis.ContentEncoding = normalizeEncoding(req.ContentEncoding)
	analysis.UpdatedAt = &now

	if err := uow.AnalysisRepository().Update(ctx, analysis); err != nil {
		return nil, err
	}
	_ = s.analysisCache.Set(ctx, analysis)

	return toAnalysisResponse(analysis, false), nil
}

// checkAndBumpUsage enforces the per-day generation quota. The counter
// resets lazily on the first call of a new day.
func (s *analysisService) checkAndBumpUsage(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User) error {
	now := time.Now()
	usage := user.AiDailyUsage

	sameDay := user.AiDailyUsageLastReset.Year() == now.Year() &&
		user.AiDailyUsageLastReset.YearDay() == now.YearDay()
	if !sameDay {
		usage = 0
		user.AiDailyUsageLastReset = now
	}

	limit := defaultAiDailyLimit
	if user.AiDailyLimitOverride != nil {
		limit = *user.AiDailyLimitOverride
	}

	if usage >= limit {
		return errors.New("daily analysis limit reached, try again tomorrow")
	}

	user.AiDailyUsage = usage + 1
	return uow.UserRepository().Update(ctx, user)
}

const analysisSystemPrompt = "You are a reflective journaling assistant. " +
	"Describe the overall mood, recurring themes and anything notable in the " +
	"user's entries, in a warm second-person voice. Keep it under 200 words."

func buildAnalysisPrompt(period entity.AnalysisPeriod, texts []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Summarize the following journal entries covering one %s.\n\n", period))
	for i, text := range texts {
		sb.WriteString(fmt.Sprintf("Entry %d:\n%s\n\n", i+1, text))
	}
	return sb.String()
}

func toAnalysisResponse(a *entity.PeriodAnalysis, cached bool) *dto.AnalysisResponse {
	return &dto.AnalysisResponse{
		Id:              a.Id,
		Period:          string(a.PeriodType),
		PeriodStart:     a.PeriodStart.Format("2006-01-02"),
		Content:         a.Content,
		ContentEncoding: string(a.ContentEncoding),
		SourceEntryIds:  a.SourceEntryIds,
		Model:           a.Model,
		Cached:          cached,
		CreatedAt:       a.CreatedAt,
	}
}
