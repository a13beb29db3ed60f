package mapper

import (
	"time"

	"daily-journal-be/internal/entity"
	"daily-journal-be/internal/model"

	"gorm.io/gorm"
)

type EntryMapper struct{}

func NewEntryMapper() *EntryMapper {
	return &EntryMapper{}
}

func (m *EntryMapper) ToEntity(e *model.Entry) *entity.Entry {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.Entry{
		Id:              e.Id,
		UserId:          e.UserId,
		Content:         e.Content,
		ContentEncoding: entity.ContentEncoding(e.ContentEncoding),
		EntryDate:       e.EntryDate,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
		IsDeleted:       e.DeletedAt.Valid,
	}
}

func (m *EntryMapper) ToModel(e *entity.Entry) *model.Entry {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	encoding := string(e.ContentEncoding)
	if encoding == "" {
		encoding = string(entity.EncodingPlaintext)
	}

	return &model.Entry{
		Id:              e.Id,
		UserId:          e.UserId,
		Content:         e.Content,
		ContentEncoding: encoding,
		EntryDate:       e.EntryDate,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
	}
}

func (m *EntryMapper) ToEntities(entries []*model.Entry) []*entity.Entry {
	entities := make([]*entity.Entry, len(entries))
	for i, e := range entries {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *EntryMapper) ToModels(entries []*entity.Entry) []*model.Entry {
	models := make([]*model.Entry, len(entries))
	for i, e := range entries {
		models[i] = m.ToModel(e)
	}
	return models
}
