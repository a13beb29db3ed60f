package mapper

import (
	"encoding/json"
	"time"

	"daily-journal-be/internal/entity"
	"daily-journal-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AnalysisMapper struct{}

func NewAnalysisMapper() *AnalysisMapper {
	return &AnalysisMapper{}
}

func (m *AnalysisMapper) ToEntity(a *model.PeriodAnalysis) *entity.PeriodAnalysis {
	if a == nil {
		return nil
	}

	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}

	var sourceIds []uuid.UUID
	if len(a.SourceEntryIds) > 0 {
		// Malformed JSON just yields an empty source list; the analysis text
		// itself is still served.
		_ = json.Unmarshal(a.SourceEntryIds, &sourceIds)
	}

	return &entity.PeriodAnalysis{
		Id:              a.Id,
		UserId:          a.UserId,
		PeriodType:      entity.AnalysisPeriod(a.PeriodType),
		PeriodStart:     a.PeriodStart,
		Content:         a.Content,
		ContentEncoding: entity.ContentEncoding(a.ContentEncoding),
		SourceEntryIds:  sourceIds,
		Model:           a.Model,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *AnalysisMapper) ToModel(a *entity.PeriodAnalysis) *model.PeriodAnalysis {
	if a == nil {
		return nil
	}

	var updatedAt time.Time
	if a.UpdatedAt != nil {
		updatedAt = *a.UpdatedAt
	}

	sourceJson, _ := json.Marshal(a.SourceEntryIds)

	encoding := string(a.ContentEncoding)
	if encoding == "" {
		encoding = string(entity.EncodingPlaintext)
	}

	return &model.PeriodAnalysis{
		Id:              a.Id,
		UserId:          a.UserId,
		PeriodType:      string(a.PeriodType),
		PeriodStart:     a.PeriodStart,
		Content:         a.Content,
		ContentEncoding: encoding,
		SourceEntryIds:  datatypes.JSON(sourceJson),
		Model:           a.Model,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *AnalysisMapper) ToEntities(analyses []*model.PeriodAnalysis) []*entity.PeriodAnalysis {
	entities := make([]*entity.PeriodAnalysis, len(analyses))
	for i, a := range analyses {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
