package dto

import "github.com/talentflow/talentflow-api/internal/models"

type UploadResponse struct {
	QuestionID string          `json:"questionId"`
	File       models.FileMeta `json:"file"`
}
