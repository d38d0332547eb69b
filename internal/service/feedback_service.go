package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/talentflow/talentflow-api/internal/dto"
	"github.com/talentflow/talentflow-api/internal/models"
	"github.com/talentflow/talentflow-api/internal/repository"
	"github.com/talentflow/talentflow-api/pkg/ai"
)

var ErrFeedbackUnavailable = errors.New("feedback suggestions are not configured")

// FeedbackService drafts reviewer feedback for completed responses. The
// draft lands in the review form, never in front of the candidate.
type FeedbackService interface {
	Suggest(ctx context.Context, responseID string) (dto.FeedbackSuggestion, error)
}

type feedbackService struct {
	responses   repository.ResponseRepository
	assessments repository.AssessmentRepository
	suggester   ai.Suggester
	logger      zerolog.Logger
}

func NewFeedbackService(
	responses repository.ResponseRepository,
	assessments repository.AssessmentRepository,
	suggester ai.Suggester,
	logger zerolog.Logger,
) FeedbackService {
	return &feedbackService{
		responses:   responses,
		assessments: assessments,
		suggester:   suggester,
		logger:      logger.With().Str("component", "feedback_service").Logger(),
	}
}

func (s *feedbackService) Suggest(ctx context.Context, responseID string) (dto.FeedbackSuggestion, error) {
	if s.suggester == nil {
		return dto.FeedbackSuggestion{}, ErrFeedbackUnavailable
	}

	response, err := s.responses.GetByID(ctx, responseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeedbackSuggestion{}, ErrResponseNotFound
		}
		return dto.FeedbackSuggestion{}, err
	}
	if !response.IsCompleted() {
		return dto.FeedbackSuggestion{}, ErrResponseNotCompleted
	}

	assessment, err := s.assessments.GetByID(ctx, response.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeedbackSuggestion{}, ErrAssessmentNotFound
		}
		return dto.FeedbackSuggestion{}, err
	}

	score := 0
	if response.Score != nil {
		score = *response.Score
	}

	summary, textAnswers := summarizeAnswers(assessment, response.AnswerMap())
	suggestion, err := s.suggester.Suggest(ctx, ai.SuggestionInput{
		AssessmentTitle: assessment.Title,
		CandidateLabel:  response.CandidateID,
		Score:           score,
		PassingScore:    assessment.PassingScorePercent,
		AnswerSummary:   summary,
		TextAnswers:     textAnswers,
	})
	if err != nil {
		return dto.FeedbackSuggestion{}, err
	}

	s.logger.Info().Str("response_id", responseID).Msg("feedback suggestion drafted")

	return dto.FeedbackSuggestion{
		ResponseID: responseID,
		Suggestion: suggestion.Feedback,
	}, nil
}

func summarizeAnswers(assessment models.Assessment, answers map[string]models.Answer) (string, []string) {
	builder := strings.Builder{}
	var textAnswers []string

	for _, question := range assessment.AllQuestions() {
		answer, ok := answers[question.ID]
		if !ok || answer.IsEmpty() {
			fmt.Fprintf(&builder, "%s: unanswered\n", question.Text)
			continue
		}

		switch answer.Kind {
		case models.AnswerText:
			if question.IsText() {
				textAnswers = append(textAnswers, answer.Text)
			}
			fmt.Fprintf(&builder, "%s: answered in writing\n", question.Text)
		case models.AnswerChoice:
			fmt.Fprintf(&builder, "%s: selected %q\n", question.Text, answer.Choice)
		case models.AnswerChoices:
			fmt.Fprintf(&builder, "%s: selected %s\n", question.Text, strings.Join(answer.Choices, ", "))
		case models.AnswerNumber:
			fmt.Fprintf(&builder, "%s: %v\n", question.Text, answer.Number)
		case models.AnswerFile:
			fmt.Fprintf(&builder, "%s: uploaded %s\n", question.Text, answer.File.Name)
		}
	}

	return builder.String(), textAnswers
}
