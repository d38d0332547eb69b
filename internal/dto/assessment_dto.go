package dto

import (
	"time"

	"github.com/talentflow/talentflow-api/internal/models"
)

// AssessmentSaveRequest carries the full assessment payload for create and
// update operations. Sections are accepted as-is and validated structurally
// by the service before persisting.
type AssessmentSaveRequest struct {
	JobID               string           `json:"jobId" validate:"required"`
	Title               string           `json:"title" validate:"required"`
	Description         string           `json:"description"`
	Sections            []models.Section `json:"sections" validate:"required"`
	TimeLimitMinutes    int              `json:"timeLimitMinutes" validate:"gte=0"`
	PassingScorePercent int              `json:"passingScorePercent" validate:"gte=0,lte=100"`
	IsActive            bool             `json:"isActive"`
}

type AssessmentFilter struct {
	JobID    *string `query:"jobId"`
	IsActive *bool   `query:"isActive"`
}

type AssessmentResponse struct {
	ID                  string           `json:"id"`
	JobID               string           `json:"jobId"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	Sections            []models.Section `json:"sections"`
	TimeLimitMinutes    int              `json:"timeLimitMinutes"`
	PassingScorePercent int              `json:"passingScorePercent"`
	IsActive            bool             `json:"isActive"`
	QuestionCount       int              `json:"questionCount"`
	TotalPoints         int              `json:"totalPoints"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

type AssessmentStats struct {
	AssessmentID        string  `json:"assessmentId"`
	TotalQuestions      int     `json:"totalQuestions"`
	TotalPoints         int     `json:"totalPoints"`
	TotalResponses      int     `json:"totalResponses"`
	CompletedResponses  int     `json:"completedResponses"`
	InProgressResponses int     `json:"inProgressResponses"`
	AverageScore        float64 `json:"averageScore"`
	PassRate            float64 `json:"passRate"`
}

// AssessmentArchive is the export/import envelope. It bundles the assessment
// definition with its current stats and responses so a dashboard snapshot can
// be moved between environments.
type AssessmentArchive struct {
	Assessment AssessmentResponse  `json:"assessment"`
	Stats      AssessmentStats     `json:"stats"`
	Responses  []CandidateResponse `json:"responses"`
	ExportedAt time.Time           `json:"exportedAt"`
}

func NewAssessmentResponse(assessment models.Assessment) AssessmentResponse {
	return AssessmentResponse{
		ID:                  assessment.ID,
		JobID:               assessment.JobID,
		Title:               assessment.Title,
		Description:         assessment.Description,
		Sections:            assessment.SectionList(),
		TimeLimitMinutes:    assessment.TimeLimitMinutes,
		PassingScorePercent: assessment.PassingScorePercent,
		IsActive:            assessment.IsActive,
		QuestionCount:       assessment.QuestionCount(),
		TotalPoints:         assessment.TotalPoints(),
		CreatedAt:           assessment.CreatedAt,
		UpdatedAt:           assessment.UpdatedAt,
	}
}

func NewAssessmentResponseSlice(assessments []models.Assessment) []AssessmentResponse {
	out := make([]AssessmentResponse, 0, len(assessments))
	for _, assessment := range assessments {
		out = append(out, NewAssessmentResponse(assessment))
	}
	return out
}
