package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/talentflow/talentflow-api/internal/dto"
	"github.com/talentflow/talentflow-api/internal/engine"
	"github.com/talentflow/talentflow-api/internal/models"
	"github.com/talentflow/talentflow-api/internal/observability"
	"github.com/talentflow/talentflow-api/internal/repository"
)

var (
	ErrResponseNotFound     = errors.New("response not found")
	ErrResponseCompleted    = errors.New("response already completed")
	ErrResponseNotCompleted = errors.New("response is not completed")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrInvalidAnswer        = errors.New("invalid answer")
)

type ResponseService interface {
	Start(ctx context.Context, payload dto.ResponseStartRequest) (dto.CandidateResponse, error)
	Get(ctx context.Context, id string) (dto.CandidateResponse, error)
	List(ctx context.Context, filter dto.ResponseFilter) ([]dto.CandidateResponse, error)
	RecordAnswer(ctx context.Context, id string, payload dto.AnswerRequest) (dto.CandidateResponse, error)
	VisibleQuestions(ctx context.Context, id string) (dto.VisibleQuestionsResponse, error)
	Submit(ctx context.Context, id string) (dto.CandidateResponse, error)
	ApplyScore(ctx context.Context, id string, payload dto.ScoreRequest) (dto.CandidateResponse, error)
}

type responseService struct {
	responses   repository.ResponseRepository
	assessments repository.AssessmentRepository
	validator   *validator.Validate
	events      EventPublisher
	policy      engine.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

func NewResponseService(
	responses repository.ResponseRepository,
	assessments repository.AssessmentRepository,
	validate *validator.Validate,
	events EventPublisher,
	policy engine.Policy,
	logger zerolog.Logger,
) ResponseService {
	return &responseService{
		responses:   responses,
		assessments: assessments,
		validator:   validate,
		events:      events,
		policy:      policy,
		logger:      logger.With().Str("component", "response_service").Logger(),
		tracer:      otel.Tracer("github.com/talentflow/talentflow-api/internal/service/response"),
		now:         time.Now,
	}
}

func (s *responseService) Start(ctx context.Context, payload dto.ResponseStartRequest) (dto.CandidateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CandidateResponse{}, err
	}

	if _, err := s.getAssessment(ctx, payload.AssessmentID); err != nil {
		return dto.CandidateResponse{}, err
	}

	response := models.Response{
		ID:           uuid.NewString(),
		AssessmentID: payload.AssessmentID,
		CandidateID:  payload.CandidateID,
		Status:       models.ResponseStatusInProgress,
		StartedAt:    s.now(),
	}
	if err := response.SetAnswerMap(map[string]models.Answer{}); err != nil {
		return dto.CandidateResponse{}, err
	}

	if err := s.responses.Create(ctx, &response); err != nil {
		return dto.CandidateResponse{}, err
	}

	observability.ResponsesStarted().Inc()
	s.logger.Info().
		Str("response_id", response.ID).
		Str("assessment_id", response.AssessmentID).
		Str("candidate_id", response.CandidateID).
		Msg("response started")
	s.events.Publish(ctx, Event{Type: EventResponseStarted, AssessmentID: response.AssessmentID, ResponseID: response.ID})

	return dto.NewCandidateResponse(response), nil
}

func (s *responseService) Get(ctx context.Context, id string) (dto.CandidateResponse, error) {
	response, err := s.getResponse(ctx, id)
	if err != nil {
		return dto.CandidateResponse{}, err
	}
	return dto.NewCandidateResponse(response), nil
}

func (s *responseService) List(ctx context.Context, filter dto.ResponseFilter) ([]dto.CandidateResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	responses, err := s.responses.List(ctx, repository.ResponseFilter{
		AssessmentID: filter.AssessmentID,
		CandidateID:  filter.CandidateID,
		Status:       filter.Status,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewCandidateResponseSlice(responses), nil
}

func (s *responseService) RecordAnswer(ctx context.Context, id string, payload dto.AnswerRequest) (dto.CandidateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CandidateResponse{}, err
	}

	response, err := s.getResponse(ctx, id)
	if err != nil {
		return dto.CandidateResponse{}, err
	}
	if response.IsCompleted() {
		return dto.CandidateResponse{}, ErrResponseCompleted
	}

	assessment, err := s.getAssessment(ctx, response.AssessmentID)
	if err != nil {
		return dto.CandidateResponse{}, err
	}

	question, ok := assessment.QuestionByID(payload.QuestionID)
	if !ok {
		return dto.CandidateResponse{}, ErrQuestionNotFound
	}

	if err := engine.CheckAnswer(question, payload.Answer); err != nil {
		return dto.CandidateResponse{}, fmt.Errorf("%w: %s", ErrInvalidAnswer, err.Error())
	}

	// Last write wins; no answer history is kept.
	answers := response.AnswerMap()
	answers[payload.QuestionID] = payload.Answer
	if err := response.SetAnswerMap(answers); err != nil {
		return dto.CandidateResponse{}, err
	}

	if err := s.responses.Update(ctx, &response); err != nil {
		return dto.CandidateResponse{}, err
	}

	return dto.NewCandidateResponse(response), nil
}

func (s *responseService) VisibleQuestions(ctx context.Context, id string) (dto.VisibleQuestionsResponse, error) {
	response, err := s.getResponse(ctx, id)
	if err != nil {
		return dto.VisibleQuestionsResponse{}, err
	}

	assessment, err := s.getAssessment(ctx, response.AssessmentID)
	if err != nil {
		return dto.VisibleQuestionsResponse{}, err
	}

	return dto.VisibleQuestionsResponse{
		ResponseID: response.ID,
		Questions:  engine.VisibleQuestions(assessment, response.AnswerMap()),
	}, nil
}

func (s *responseService) Submit(ctx context.Context, id string) (dto.CandidateResponse, error) {
	ctx, span := s.tracer.Start(ctx, "response.submit", trace.WithAttributes(
		attribute.String("response.id", id),
	))
	defer span.End()

	response, err := s.getResponse(ctx, id)
	if err != nil {
		return dto.CandidateResponse{}, err
	}
	if response.IsCompleted() {
		return dto.CandidateResponse{}, ErrResponseCompleted
	}

	assessment, err := s.getAssessment(ctx, response.AssessmentID)
	if err != nil {
		return dto.CandidateResponse{}, err
	}

	started := s.now()
	score := engine.Score(assessment, response.AnswerMap(), s.policy)
	observability.ScoringDuration().Observe(time.Since(started).Seconds())

	completedAt := s.now()
	response.Status = models.ResponseStatusCompleted
	response.CompletedAt = &completedAt
	response.Score = &score

	if err := s.responses.Update(ctx, &response); err != nil {
		return dto.CandidateResponse{}, err
	}

	observability.ResponsesSubmitted().Inc()
	s.logger.Info().
		Str("response_id", response.ID).
		Int("score", score).
		Bool("passed", engine.PassingScore(assessment, score)).
		Msg("response submitted")
	s.events.Publish(ctx, Event{Type: EventResponseSubmitted, AssessmentID: response.AssessmentID, ResponseID: response.ID})

	return dto.NewCandidateResponse(response), nil
}

// ApplyScore records a reviewer's manual score and feedback. It only applies
// to completed responses and replaces the engine-computed score.
func (s *responseService) ApplyScore(ctx context.Context, id string, payload dto.ScoreRequest) (dto.CandidateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CandidateResponse{}, err
	}

	response, err := s.getResponse(ctx, id)
	if err != nil {
		return dto.CandidateResponse{}, err
	}
	if !response.IsCompleted() {
		return dto.CandidateResponse{}, ErrResponseNotCompleted
	}

	scoredAt := s.now()
	response.Score = &payload.Score
	response.Feedback = payload.Feedback
	response.ScoredAt = &scoredAt

	if err := s.responses.Update(ctx, &response); err != nil {
		return dto.CandidateResponse{}, err
	}

	s.logger.Info().Str("response_id", response.ID).Int("score", payload.Score).Msg("manual score applied")
	s.events.Publish(ctx, Event{Type: EventResponseScored, AssessmentID: response.AssessmentID, ResponseID: response.ID})

	return dto.NewCandidateResponse(response), nil
}

func (s *responseService) getResponse(ctx context.Context, id string) (models.Response, error) {
	response, err := s.responses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Response{}, ErrResponseNotFound
		}
		return models.Response{}, err
	}
	return response, nil
}

func (s *responseService) getAssessment(ctx context.Context, id string) (models.Assessment, error) {
	assessment, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assessment{}, ErrAssessmentNotFound
		}
		return models.Assessment{}, err
	}
	return assessment, nil
}
