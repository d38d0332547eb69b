package service_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/talentflow/talentflow-api/internal/models"
	"github.com/talentflow/talentflow-api/internal/repository"
	"github.com/talentflow/talentflow-api/internal/service"
)

func setupStatsService(t *testing.T) (service.StatsService, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Assessment{}, &models.Response{}))

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	stats := service.NewStatsService(
		repository.NewAssessmentRepository(db),
		repository.NewResponseRepository(db),
		cache,
		time.Minute,
		zerolog.New(io.Discard),
	)
	return stats, db, mr
}

func seedStatsFixtures(t *testing.T, db *gorm.DB) {
	t.Helper()

	assessment := models.Assessment{
		ID:                  "a1",
		JobID:               "job-1",
		Title:               "Screening",
		PassingScorePercent: 60,
	}
	require.NoError(t, assessment.SetSectionList([]models.Section{{
		ID:    "s1",
		Title: "Basics",
		Questions: []models.Question{{
			ID:     "q1",
			Type:   models.QuestionShortText,
			Text:   "Tell us about yourself",
			Points: 10,
		}},
	}}))
	require.NoError(t, db.Create(&assessment).Error)

	now := time.Now()
	passing := 80
	failing := 40
	responses := []models.Response{
		{ID: "r1", AssessmentID: "a1", CandidateID: "c1", Status: models.ResponseStatusCompleted, StartedAt: now, CompletedAt: &now, Score: &passing},
		{ID: "r2", AssessmentID: "a1", CandidateID: "c2", Status: models.ResponseStatusCompleted, StartedAt: now, CompletedAt: &now, Score: &failing},
		{ID: "r3", AssessmentID: "a1", CandidateID: "c3", Status: models.ResponseStatusInProgress, StartedAt: now},
	}
	for i := range responses {
		require.NoError(t, db.Create(&responses[i]).Error)
	}
}

func TestGetStatsComputesAggregates(t *testing.T) {
	stats, db, _ := setupStatsService(t)
	seedStatsFixtures(t, db)

	result, err := stats.GetStats(context.Background(), "a1")
	require.NoError(t, err)

	require.Equal(t, "a1", result.AssessmentID)
	require.Equal(t, 1, result.TotalQuestions)
	require.Equal(t, 10, result.TotalPoints)
	require.Equal(t, 3, result.TotalResponses)
	require.Equal(t, 2, result.CompletedResponses)
	require.Equal(t, 1, result.InProgressResponses)
	require.Equal(t, 60.0, result.AverageScore)
	require.Equal(t, 50.0, result.PassRate)
}

func TestGetStatsUsesCache(t *testing.T) {
	stats, db, mr := setupStatsService(t)
	seedStatsFixtures(t, db)

	first, err := stats.GetStats(context.Background(), "a1")
	require.NoError(t, err)
	require.True(t, mr.Exists("stats:assessment:a1"))

	// A new response is invisible while the cached entry is warm.
	now := time.Now()
	require.NoError(t, db.Create(&models.Response{
		ID: "r4", AssessmentID: "a1", CandidateID: "c4",
		Status: models.ResponseStatusInProgress, StartedAt: now,
	}).Error)

	cached, err := stats.GetStats(context.Background(), "a1")
	require.NoError(t, err)
	require.Equal(t, first.TotalResponses, cached.TotalResponses)

	mr.FastForward(2 * time.Minute)

	refreshed, err := stats.GetStats(context.Background(), "a1")
	require.NoError(t, err)
	require.Equal(t, 4, refreshed.TotalResponses)
}

func TestGetStatsUnknownAssessment(t *testing.T) {
	stats, _, _ := setupStatsService(t)

	_, err := stats.GetStats(context.Background(), "missing")
	require.ErrorIs(t, err, service.ErrAssessmentNotFound)
}
