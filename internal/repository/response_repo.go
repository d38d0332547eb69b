package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/talentflow/talentflow-api/internal/models"
)

// ResponseFilter allows narrowing response queries.
type ResponseFilter struct {
	AssessmentID *string
	CandidateID  *string
	Status       *string
}

// ResponseRepository defines data operations for candidate responses.
type ResponseRepository interface {
	List(ctx context.Context, filter ResponseFilter) ([]models.Response, error)
	GetByID(ctx context.Context, id string) (models.Response, error)
	Create(ctx context.Context, response *models.Response) error
	Update(ctx context.Context, response *models.Response) error
}

type responseRepository struct {
	db *gorm.DB
}

// NewResponseRepository instantiates the repository.
func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) List(ctx context.Context, filter ResponseFilter) ([]models.Response, error) {
	query := r.db.WithContext(ctx).Model(&models.Response{})

	if filter.AssessmentID != nil {
		query = query.Where("assessment_id = ?", *filter.AssessmentID)
	}

	if filter.CandidateID != nil {
		query = query.Where("candidate_id = ?", *filter.CandidateID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var responses []models.Response
	if err := query.Order("started_at DESC").Find(&responses).Error; err != nil {
		return nil, err
	}

	return responses, nil
}

func (r *responseRepository) GetByID(ctx context.Context, id string) (models.Response, error) {
	var response models.Response
	if err := r.db.WithContext(ctx).First(&response, "id = ?", id).Error; err != nil {
		return models.Response{}, err
	}

	return response, nil
}

func (r *responseRepository) Create(ctx context.Context, response *models.Response) error {
	return r.db.WithContext(ctx).Create(response).Error
}

func (r *responseRepository) Update(ctx context.Context, response *models.Response) error {
	return r.db.WithContext(ctx).Save(response).Error
}
