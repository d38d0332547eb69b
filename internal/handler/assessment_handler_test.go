package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/talentflow/talentflow-api/internal/dto"
	"github.com/talentflow/talentflow-api/internal/handler"
	"github.com/talentflow/talentflow-api/internal/models"
	"github.com/talentflow/talentflow-api/internal/service"
)

type mockAssessmentService struct {
	lastPayload dto.AssessmentSaveRequest
	response    dto.AssessmentResponse
	violations  []string
	err         error
}

func (m *mockAssessmentService) List(_ context.Context, _ dto.AssessmentFilter) ([]dto.AssessmentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []dto.AssessmentResponse{m.response}, nil
}

func (m *mockAssessmentService) Get(_ context.Context, _ string) (dto.AssessmentResponse, error) {
	return m.result()
}

func (m *mockAssessmentService) Create(_ context.Context, payload dto.AssessmentSaveRequest) (dto.AssessmentResponse, error) {
	m.lastPayload = payload
	return m.result()
}

func (m *mockAssessmentService) Update(_ context.Context, _ string, payload dto.AssessmentSaveRequest) (dto.AssessmentResponse, error) {
	m.lastPayload = payload
	return m.result()
}

func (m *mockAssessmentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockAssessmentService) Validate(payload dto.AssessmentSaveRequest) []string {
	m.lastPayload = payload
	return m.violations
}

func (m *mockAssessmentService) result() (dto.AssessmentResponse, error) {
	if m.err != nil {
		return dto.AssessmentResponse{}, m.err
	}
	return m.response, nil
}

type mockStatsService struct {
	stats dto.AssessmentStats
	err   error
}

func (m *mockStatsService) GetStats(_ context.Context, _ string) (dto.AssessmentStats, error) {
	if m.err != nil {
		return dto.AssessmentStats{}, m.err
	}
	return m.stats, nil
}

type mockTransferService struct {
	archive dto.AssessmentArchive
	created dto.AssessmentResponse
	err     error
}

func (m *mockTransferService) Export(_ context.Context, _ string) (dto.AssessmentArchive, error) {
	if m.err != nil {
		return dto.AssessmentArchive{}, m.err
	}
	return m.archive, nil
}

func (m *mockTransferService) Import(_ context.Context, _ []byte) (dto.AssessmentResponse, error) {
	if m.err != nil {
		return dto.AssessmentResponse{}, m.err
	}
	return m.created, nil
}

func newAssessmentTestApp(svc service.AssessmentService, stats service.StatsService, transfer service.TransferService) *fiber.App {
	app := fiber.New()
	logger := zerolog.New(io.Discard)
	handler.NewAssessmentHandler(svc, stats, transfer, logger).Register(app.Group("/api/v1/assessments"))
	return app
}

func TestAssessmentHandler_CreateSuccess(t *testing.T) {
	svc := &mockAssessmentService{response: dto.AssessmentResponse{ID: "a1", Title: "Screening"}}
	app := newAssessmentTestApp(svc, &mockStatsService{}, &mockTransferService{})

	payload := dto.AssessmentSaveRequest{
		JobID: "job-1",
		Title: "Screening",
		Sections: []models.Section{{
			Title: "Basics",
			Questions: []models.Question{{
				Type: models.QuestionShortText,
				Text: "Tell us about yourself",
			}},
		}},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "job-1", svc.lastPayload.JobID)
}

func TestAssessmentHandler_CreateStructuralViolation(t *testing.T) {
	svc := &mockAssessmentService{err: &service.StructuralError{Messages: []string{"assessment title is required"}}}
	app := newAssessmentTestApp(svc, &mockStatsService{}, &mockTransferService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments", bytes.NewReader([]byte(`{"jobId":"job-1"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &payload)
	require.False(t, payload.Success)
	require.Contains(t, payload.Message, "assessment title is required")
}

func TestAssessmentHandler_GetNotFound(t *testing.T) {
	svc := &mockAssessmentService{err: service.ErrAssessmentNotFound}
	app := newAssessmentTestApp(svc, &mockStatsService{}, &mockTransferService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assessments/missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAssessmentHandler_ValidateReportsViolations(t *testing.T) {
	svc := &mockAssessmentService{violations: []string{"assessment must have at least one section"}}
	app := newAssessmentTestApp(svc, &mockStatsService{}, &mockTransferService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments/validate", bytes.NewReader([]byte(`{"title":"Draft"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data struct {
			Valid      bool     `json:"valid"`
			Violations []string `json:"violations"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.False(t, payload.Data.Valid)
	require.Len(t, payload.Data.Violations, 1)
}

func TestAssessmentHandler_StatsSuccess(t *testing.T) {
	stats := &mockStatsService{stats: dto.AssessmentStats{AssessmentID: "a1", TotalResponses: 3}}
	app := newAssessmentTestApp(&mockAssessmentService{}, stats, &mockTransferService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assessments/a1/stats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data dto.AssessmentStats `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.Equal(t, 3, payload.Data.TotalResponses)
}

func TestAssessmentHandler_ImportInvalidArchive(t *testing.T) {
	transfer := &mockTransferService{err: service.ErrInvalidArchive}
	app := newAssessmentTestApp(&mockAssessmentService{}, &mockStatsService{}, transfer)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments/import", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
