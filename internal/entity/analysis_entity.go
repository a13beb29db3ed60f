package entity

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisPeriod string

const (
	PeriodDay   AnalysisPeriod = "day"
	PeriodWeek  AnalysisPeriod = "week"
	PeriodMonth AnalysisPeriod = "month"
)

// PeriodAnalysis is an AI-generated summary of a user's entries over a day,
// week or month. Content follows the same opaque plaintext/envelope contract
// as Entry: a client may overwrite the generated text with an envelope.
type PeriodAnalysis struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	PeriodType      AnalysisPeriod
	PeriodStart     time.Time // first day of the period
	Content         string
	ContentEncoding ContentEncoding
	SourceEntryIds  []uuid.UUID // entries the summary was generated from
	Model           string      // LLM model that produced it
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
