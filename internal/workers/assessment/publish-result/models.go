// internal/workers/assessment/publish-result/models.go
package publishresult

import (
	"time"

	"financial-clinic-workers/internal/models"
)

type Input struct {
	AssessmentID      string                                   `json:"assessmentId"`
	Variant           models.Variant                           `json:"variant"`
	TotalScore        float64                                  `json:"totalScore"`
	StatusBand        string                                   `json:"statusBand"`
	CategoryScores    map[models.Category]models.CategoryScore `json:"categoryScores,omitempty"`
	QuestionsAnswered int                                      `json:"questionsAnswered,omitempty"`
	CompanyID         string                                   `json:"companyId,omitempty"`
}

type Output struct {
	Published bool   `json:"published"`
	MessageID string `json:"messageId,omitempty"`
	EventID   string `json:"eventId,omitempty"`
}

// Event is the envelope published for downstream consumers.
type Event struct {
	EventID    string    `json:"eventId"`
	EventType  string    `json:"eventType"`
	OccurredAt time.Time `json:"occurredAt"`
	Source     string    `json:"source"`
	Data       Input     `json:"data"`
}
