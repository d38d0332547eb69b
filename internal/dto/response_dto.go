package dto

import (
	"time"

	"github.com/talentflow/talentflow-api/internal/models"
)

type ResponseStartRequest struct {
	AssessmentID string `json:"assessmentId" validate:"required"`
	CandidateID  string `json:"candidateId" validate:"required"`
}

type AnswerRequest struct {
	QuestionID string        `json:"questionId" validate:"required"`
	Answer     models.Answer `json:"answer"`
}

// ScoreRequest is the manual override an HR reviewer applies after
// submission. It replaces the engine-computed score.
type ScoreRequest struct {
	Score    int    `json:"score" validate:"gte=0,lte=100"`
	Feedback string `json:"feedback"`
}

type ResponseFilter struct {
	AssessmentID *string `query:"assessmentId"`
	CandidateID  *string `query:"candidateId"`
	Status       *string `query:"status" validate:"omitempty,oneof=in-progress completed"`
}

type CandidateResponse struct {
	ID           string                   `json:"id"`
	AssessmentID string                   `json:"assessmentId"`
	CandidateID  string                   `json:"candidateId"`
	Answers      map[string]models.Answer `json:"answers"`
	Status       string                   `json:"status"`
	StartedAt    time.Time                `json:"startedAt"`
	CompletedAt  *time.Time               `json:"completedAt,omitempty"`
	Score        *int                     `json:"score,omitempty"`
	Feedback     string                   `json:"feedback,omitempty"`
	ScoredAt     *time.Time               `json:"scoredAt,omitempty"`
}

type VisibleQuestionsResponse struct {
	ResponseID string            `json:"responseId"`
	Questions  []models.Question `json:"questions"`
}

type FeedbackSuggestion struct {
	ResponseID string `json:"responseId"`
	Suggestion string `json:"suggestion"`
}

func NewCandidateResponse(response models.Response) CandidateResponse {
	return CandidateResponse{
		ID:           response.ID,
		AssessmentID: response.AssessmentID,
		CandidateID:  response.CandidateID,
		Answers:      response.AnswerMap(),
		Status:       response.Status,
		StartedAt:    response.StartedAt,
		CompletedAt:  response.CompletedAt,
		Score:        response.Score,
		Feedback:     response.Feedback,
		ScoredAt:     response.ScoredAt,
	}
}

func NewCandidateResponseSlice(responses []models.Response) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(responses))
	for _, response := range responses {
		out = append(out, NewCandidateResponse(response))
	}
	return out
}
