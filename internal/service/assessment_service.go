package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/talentflow/talentflow-api/internal/dto"
	"github.com/talentflow/talentflow-api/internal/engine"
	"github.com/talentflow/talentflow-api/internal/models"
	"github.com/talentflow/talentflow-api/internal/repository"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

// StructuralError reports every structural violation found in a submitted
// assessment, so the builder UI can surface them all at once.
type StructuralError struct {
	Messages []string
}

func (e *StructuralError) Error() string {
	return "assessment is not publishable: " + strings.Join(e.Messages, "; ")
}

type AssessmentService interface {
	List(ctx context.Context, filter dto.AssessmentFilter) ([]dto.AssessmentResponse, error)
	Get(ctx context.Context, id string) (dto.AssessmentResponse, error)
	Create(ctx context.Context, payload dto.AssessmentSaveRequest) (dto.AssessmentResponse, error)
	Update(ctx context.Context, id string, payload dto.AssessmentSaveRequest) (dto.AssessmentResponse, error)
	Delete(ctx context.Context, id string) error
	Validate(payload dto.AssessmentSaveRequest) []string
}

type assessmentService struct {
	repo      repository.AssessmentRepository
	validator *validator.Validate
	events    EventPublisher
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

func NewAssessmentService(
	repo repository.AssessmentRepository,
	validate *validator.Validate,
	events EventPublisher,
	logger zerolog.Logger,
) AssessmentService {
	return &assessmentService{
		repo:      repo,
		validator: validate,
		events:    events,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "assessment_service").Logger(),
	}
}

func (s *assessmentService) List(ctx context.Context, filter dto.AssessmentFilter) ([]dto.AssessmentResponse, error) {
	assessments, err := s.repo.List(ctx, repository.AssessmentFilter{
		JobID:    filter.JobID,
		IsActive: filter.IsActive,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewAssessmentResponseSlice(assessments), nil
}

func (s *assessmentService) Get(ctx context.Context, id string) (dto.AssessmentResponse, error) {
	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}
	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Create(ctx context.Context, payload dto.AssessmentSaveRequest) (dto.AssessmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssessmentResponse{}, err
	}

	assessment, err := s.buildAssessment(payload)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}
	assessment.ID = uuid.NewString()

	if violations := engine.Validate(assessment); len(violations) > 0 {
		return dto.AssessmentResponse{}, &StructuralError{Messages: violations}
	}

	if err := s.repo.Create(ctx, &assessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	s.logger.Info().Str("assessment_id", assessment.ID).Str("job_id", assessment.JobID).Msg("assessment created")
	s.events.Publish(ctx, Event{Type: EventAssessmentSaved, AssessmentID: assessment.ID})

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Update(ctx context.Context, id string, payload dto.AssessmentSaveRequest) (dto.AssessmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssessmentResponse{}, err
	}

	existing, err := s.getAssessment(ctx, id)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	assessment, err := s.buildAssessment(payload)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}
	assessment.ID = existing.ID
	assessment.CreatedAt = existing.CreatedAt

	if violations := engine.Validate(assessment); len(violations) > 0 {
		return dto.AssessmentResponse{}, &StructuralError{Messages: violations}
	}

	if err := s.repo.Update(ctx, &assessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	s.logger.Info().Str("assessment_id", assessment.ID).Msg("assessment updated")
	s.events.Publish(ctx, Event{Type: EventAssessmentSaved, AssessmentID: assessment.ID})

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.getAssessment(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("assessment_id", id).Msg("assessment deleted")
	s.events.Publish(ctx, Event{Type: EventAssessmentDeleted, AssessmentID: id})
	return nil
}

// Validate runs the structural checks without persisting anything, so the
// builder UI can validate drafts as the user edits.
func (s *assessmentService) Validate(payload dto.AssessmentSaveRequest) []string {
	assessment, err := s.buildAssessment(payload)
	if err != nil {
		return []string{err.Error()}
	}
	return engine.Validate(assessment)
}

func (s *assessmentService) buildAssessment(payload dto.AssessmentSaveRequest) (models.Assessment, error) {
	sections := make([]models.Section, len(payload.Sections))
	for i, section := range payload.Sections {
		if section.ID == "" {
			section.ID = uuid.NewString()
		}
		section.Title = s.sanitizer.Sanitize(section.Title)
		section.Description = s.sanitizer.Sanitize(section.Description)

		questions := make([]models.Question, len(section.Questions))
		for j, question := range section.Questions {
			if question.ID == "" {
				question.ID = uuid.NewString()
			}
			question.Text = s.sanitizer.Sanitize(question.Text)
			if question.Points == 0 {
				question.Points = models.DefaultQuestionPoints
			}
			questions[j] = question
		}
		section.Questions = questions
		sections[i] = section
	}

	assessment := models.Assessment{
		JobID:               payload.JobID,
		Title:               s.sanitizer.Sanitize(payload.Title),
		Description:         s.sanitizer.Sanitize(payload.Description),
		TimeLimitMinutes:    payload.TimeLimitMinutes,
		PassingScorePercent: payload.PassingScorePercent,
		IsActive:            payload.IsActive,
	}
	if err := assessment.SetSectionList(sections); err != nil {
		return models.Assessment{}, err
	}
	return assessment, nil
}

func (s *assessmentService) getAssessment(ctx context.Context, id string) (models.Assessment, error) {
	assessment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assessment{}, ErrAssessmentNotFound
		}
		return models.Assessment{}, err
	}
	return assessment, nil
}
