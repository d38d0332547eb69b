package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/talentflow/talentflow-api/internal/dto"
	"github.com/talentflow/talentflow-api/internal/models"
	"github.com/talentflow/talentflow-api/internal/repository"
)

type StatsService interface {
	GetStats(ctx context.Context, assessmentID string) (dto.AssessmentStats, error)
}

type statsService struct {
	assessments repository.AssessmentRepository
	responses   repository.ResponseRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

func NewStatsService(
	assessments repository.AssessmentRepository,
	responses repository.ResponseRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) StatsService {
	return &statsService{
		assessments: assessments,
		responses:   responses,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger.With().Str("component", "stats_service").Logger(),
	}
}

func (s *statsService) GetStats(ctx context.Context, assessmentID string) (dto.AssessmentStats, error) {
	key := fmt.Sprintf("stats:assessment:%s", assessmentID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var stats dto.AssessmentStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return stats, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("key", key).Msg("stats cache read failed")
		}
	}

	assessment, err := s.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		return dto.AssessmentStats{}, ErrAssessmentNotFound
	}

	responses, err := s.responses.List(ctx, repository.ResponseFilter{AssessmentID: &assessmentID})
	if err != nil {
		return dto.AssessmentStats{}, err
	}

	stats := buildStats(assessment, responses)

	if s.cache != nil {
		payload, err := json.Marshal(stats)
		if err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Str("key", key).Msg("stats cache write failed")
			}
		}
	}

	return stats, nil
}

func buildStats(assessment models.Assessment, responses []models.Response) dto.AssessmentStats {
	stats := dto.AssessmentStats{
		AssessmentID:   assessment.ID,
		TotalQuestions: assessment.QuestionCount(),
		TotalPoints:    assessment.TotalPoints(),
		TotalResponses: len(responses),
	}

	var scored, passed int
	var scoreTotal float64
	for _, response := range responses {
		if response.IsCompleted() {
			stats.CompletedResponses++
		} else {
			stats.InProgressResponses++
		}
		if response.Score == nil {
			continue
		}
		scored++
		scoreTotal += float64(*response.Score)
		if *response.Score >= assessment.PassingScorePercent {
			passed++
		}
	}

	if scored > 0 {
		stats.AverageScore = math.Round(scoreTotal/float64(scored)*100) / 100
		stats.PassRate = math.Round(float64(passed)/float64(scored)*10000) / 100
	}

	return stats
}
