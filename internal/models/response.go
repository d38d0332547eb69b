package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

const (
	// ResponseStatusInProgress indicates the candidate is still answering.
	ResponseStatusInProgress = "in-progress"
	// ResponseStatusCompleted indicates the candidate submitted; terminal
	// for answer edits.
	ResponseStatusCompleted = "completed"
)

// Response is one candidate's set of answers to one assessment. Answers are
// keyed by question ID and stored as a JSON document; candidateId is an
// opaque reference owned by the candidate-management system.
type Response struct {
	ID           string         `gorm:"primaryKey;size:64" json:"id"`
	AssessmentID string         `gorm:"size:64;not null;index" json:"assessment_id"`
	CandidateID  string         `gorm:"size:64;not null;index" json:"candidate_id"`
	Answers      datatypes.JSON `gorm:"type:json" json:"-"`
	Status       string         `gorm:"size:32;not null" json:"status"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at"`
	Score        *int           `json:"score"`
	Feedback     string         `gorm:"type:text" json:"feedback"`
	ScoredAt     *time.Time     `json:"scored_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Assessment   Assessment     `gorm:"foreignKey:AssessmentID;references:ID" json:"-"`
}

// IsCompleted reports whether the response reached its terminal state.
func (r Response) IsCompleted() bool {
	return r.Status == ResponseStatusCompleted
}

// SetAnswerMap serializes the answers into the JSON storage column. A
// marshal failure leaves the stored answers untouched so a bad entry can
// never wipe the column.
func (r *Response) SetAnswerMap(answers map[string]Answer) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	r.Answers = datatypes.JSON(data)
	return nil
}

// AnswerMap deserializes the stored answers keyed by question ID.
func (r Response) AnswerMap() map[string]Answer {
	answers := map[string]Answer{}
	if len(r.Answers) == 0 {
		return answers
	}
	if err := json.Unmarshal(r.Answers, &answers); err != nil {
		return map[string]Answer{}
	}
	return answers
}
