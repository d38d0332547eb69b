package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/talentflow/talentflow-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Assessment{}, &models.Response{}))

	return db
}

func TestAssessmentRepositoryRoundTripsSections(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssessmentRepository(db)

	assessment := models.Assessment{
		ID:                  "assessment-1",
		JobID:               "job-7",
		Title:               "Frontend Screening",
		PassingScorePercent: 70,
		IsActive:            true,
	}
	require.NoError(t, assessment.SetSectionList([]models.Section{{
		ID:    "s1",
		Title: "Basics",
		Questions: []models.Question{{
			ID:     "q1",
			Type:   models.QuestionSingleChoice,
			Text:   "Pick one",
			Points: 10,
			Options: []models.Option{
				{ID: "opt1", Text: "A", Value: "a"},
				{ID: "opt2", Text: "B", Value: "b"},
			},
			CorrectAnswer: "b",
		}},
	}}))

	require.NoError(t, repo.Create(context.Background(), &assessment))

	loaded, err := repo.GetByID(context.Background(), "assessment-1")
	require.NoError(t, err)

	sections := loaded.SectionList()
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Questions, 1)
	require.Equal(t, "b", sections[0].Questions[0].CorrectAnswer)
	require.Equal(t, 1, loaded.QuestionCount())
	require.Equal(t, 10, loaded.TotalPoints())
}

func TestAssessmentRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssessmentRepository(db)

	active := models.Assessment{ID: "a1", JobID: "job-1", Title: "Active", IsActive: true}
	inactive := models.Assessment{ID: "a2", JobID: "job-1", Title: "Inactive", IsActive: false}
	other := models.Assessment{ID: "a3", JobID: "job-2", Title: "Other", IsActive: true}

	for _, a := range []*models.Assessment{&active, &inactive, &other} {
		require.NoError(t, repo.Create(context.Background(), a))
	}

	jobID := "job-1"
	byJob, err := repo.List(context.Background(), AssessmentFilter{JobID: &jobID})
	require.NoError(t, err)
	require.Len(t, byJob, 2)

	isActive := true
	activeOnly, err := repo.List(context.Background(), AssessmentFilter{JobID: &jobID, IsActive: &isActive})
	require.NoError(t, err)
	require.Len(t, activeOnly, 1)
	require.Equal(t, "a1", activeOnly[0].ID)
}

func TestResponseRepositoryAnswerMapPersistence(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResponseRepository(db)

	response := models.Response{
		ID:           "resp-1",
		AssessmentID: "a1",
		CandidateID:  "cand-1",
		Status:       models.ResponseStatusInProgress,
	}
	require.NoError(t, response.SetAnswerMap(map[string]models.Answer{
		"q1": models.NewChoiceAnswer("b"),
		"q2": models.NewNumberAnswer(5),
		"q3": models.NewChoicesAnswer("x", "y"),
	}))

	require.NoError(t, repo.Create(context.Background(), &response))

	loaded, err := repo.GetByID(context.Background(), "resp-1")
	require.NoError(t, err)

	answers := loaded.AnswerMap()
	require.Len(t, answers, 3)
	require.True(t, answers["q1"].Equal(models.NewChoiceAnswer("b")))
	require.True(t, answers["q2"].Equal(models.NewNumberAnswer(5)))
	require.True(t, answers["q3"].Equal(models.NewChoicesAnswer("y", "x")))
}

func TestResponseRepositoryListByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResponseRepository(db)

	completed := models.Response{ID: "r1", AssessmentID: "a1", CandidateID: "c1", Status: models.ResponseStatusCompleted}
	inProgress := models.Response{ID: "r2", AssessmentID: "a1", CandidateID: "c2", Status: models.ResponseStatusInProgress}
	require.NoError(t, repo.Create(context.Background(), &completed))
	require.NoError(t, repo.Create(context.Background(), &inProgress))

	status := models.ResponseStatusCompleted
	results, err := repo.List(context.Background(), ResponseFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "r1", results[0].ID)
}
