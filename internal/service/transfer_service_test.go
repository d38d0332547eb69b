package service_test

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/talentflow/talentflow-api/internal/dto"
	"github.com/talentflow/talentflow-api/internal/models"
	"github.com/talentflow/talentflow-api/internal/repository"
	"github.com/talentflow/talentflow-api/internal/service"
)

func setupTransferService(t *testing.T) (service.TransferService, service.AssessmentService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Assessment{}, &models.Response{}))

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	logger := zerolog.New(io.Discard)
	validate := validator.New(validator.WithRequiredStructEnabled())
	events := &capturedEvents{}

	assessmentRepo := repository.NewAssessmentRepository(db)
	responseRepo := repository.NewResponseRepository(db)

	assessments := service.NewAssessmentService(assessmentRepo, validate, events, logger)
	stats := service.NewStatsService(assessmentRepo, responseRepo, cache, time.Minute, logger)
	transfer := service.NewTransferService(assessments, responseRepo, stats, logger)

	return transfer, assessments
}

func TestExportImportRoundTrip(t *testing.T) {
	transfer, assessments := setupTransferService(t)

	created, err := assessments.Create(context.Background(), saveRequestFixture())
	require.NoError(t, err)

	archive, err := transfer.Export(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, archive.Assessment.ID)
	require.False(t, archive.ExportedAt.IsZero())

	payload, err := json.Marshal(archive)
	require.NoError(t, err)

	imported, err := transfer.Import(context.Background(), payload)
	require.NoError(t, err)
	require.NotEqual(t, created.ID, imported.ID)
	require.Equal(t, created.Title, imported.Title)
	require.Equal(t, created.QuestionCount, imported.QuestionCount)
	require.False(t, imported.IsActive)
}

func TestImportRejectsMalformedArchive(t *testing.T) {
	transfer, _ := setupTransferService(t)

	_, err := transfer.Import(context.Background(), []byte(`{"assessment":{"title":"No job"}}`))
	require.ErrorIs(t, err, service.ErrInvalidArchive)

	_, err = transfer.Import(context.Background(), []byte(`not json`))
	require.ErrorIs(t, err, service.ErrInvalidArchive)
}

func TestExportUnknownAssessment(t *testing.T) {
	transfer, _ := setupTransferService(t)

	_, err := transfer.Export(context.Background(), "missing")
	require.ErrorIs(t, err, service.ErrAssessmentNotFound)
}

func saveRequestFixture() dto.AssessmentSaveRequest {
	return dto.AssessmentSaveRequest{
		JobID:               "job-1",
		Title:               "Frontend Screening",
		Sections:            screeningSections(),
		PassingScorePercent: 60,
		IsActive:            true,
	}
}
