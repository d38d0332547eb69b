package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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

type mockResponseService struct {
	lastAnswer dto.AnswerRequest
	response   dto.CandidateResponse
	err        error
}

func (m *mockResponseService) Start(_ context.Context, _ dto.ResponseStartRequest) (dto.CandidateResponse, error) {
	return m.result()
}

func (m *mockResponseService) Get(_ context.Context, _ string) (dto.CandidateResponse, error) {
	return m.result()
}

func (m *mockResponseService) List(_ context.Context, _ dto.ResponseFilter) ([]dto.CandidateResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []dto.CandidateResponse{m.response}, nil
}

func (m *mockResponseService) RecordAnswer(_ context.Context, _ string, payload dto.AnswerRequest) (dto.CandidateResponse, error) {
	m.lastAnswer = payload
	return m.result()
}

func (m *mockResponseService) VisibleQuestions(_ context.Context, id string) (dto.VisibleQuestionsResponse, error) {
	if m.err != nil {
		return dto.VisibleQuestionsResponse{}, m.err
	}
	return dto.VisibleQuestionsResponse{ResponseID: id}, nil
}

func (m *mockResponseService) Submit(_ context.Context, _ string) (dto.CandidateResponse, error) {
	return m.result()
}

func (m *mockResponseService) ApplyScore(_ context.Context, _ string, _ dto.ScoreRequest) (dto.CandidateResponse, error) {
	return m.result()
}

func (m *mockResponseService) result() (dto.CandidateResponse, error) {
	if m.err != nil {
		return dto.CandidateResponse{}, m.err
	}
	return m.response, nil
}

type mockFeedbackService struct {
	suggestion dto.FeedbackSuggestion
	err        error
}

func (m *mockFeedbackService) Suggest(_ context.Context, _ string) (dto.FeedbackSuggestion, error) {
	if m.err != nil {
		return dto.FeedbackSuggestion{}, m.err
	}
	return m.suggestion, nil
}

func newResponseTestApp(svc service.ResponseService, feedback service.FeedbackService) *fiber.App {
	app := fiber.New()
	logger := zerolog.New(io.Discard)
	handler.NewResponseHandler(svc, feedback, logger).Register(app.Group("/api/v1/responses"))
	return app
}

func TestResponseHandler_StartSuccess(t *testing.T) {
	svc := &mockResponseService{response: dto.CandidateResponse{ID: "r1", Status: models.ResponseStatusInProgress}}
	app := newResponseTestApp(svc, &mockFeedbackService{})

	body, err := json.Marshal(dto.ResponseStartRequest{AssessmentID: "a1", CandidateID: "c1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/responses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var payload struct {
		Success bool                  `json:"success"`
		Data    dto.CandidateResponse `json:"data"`
		Message string                `json:"message"`
	}
	decodeResponse(t, resp, &payload)
	require.True(t, payload.Success)
	require.Equal(t, "response started", payload.Message)
	require.Equal(t, "r1", payload.Data.ID)
}

func TestResponseHandler_RecordAnswerPassesPayload(t *testing.T) {
	svc := &mockResponseService{response: dto.CandidateResponse{ID: "r1"}}
	app := newResponseTestApp(svc, &mockFeedbackService{})

	body, err := json.Marshal(dto.AnswerRequest{QuestionID: "q1", Answer: models.NewChoiceAnswer("react")})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/responses/r1/answers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "q1", svc.lastAnswer.QuestionID)
	require.True(t, svc.lastAnswer.Answer.Equal(models.NewChoiceAnswer("react")))
}

func TestResponseHandler_ServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "not found", err: service.ErrResponseNotFound, statusCode: fiber.StatusNotFound},
		{name: "completed", err: service.ErrResponseCompleted, statusCode: fiber.StatusConflict},
		{name: "invalid answer", err: service.ErrInvalidAnswer, statusCode: fiber.StatusBadRequest},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockResponseService{err: tc.err}
			app := newResponseTestApp(svc, &mockFeedbackService{})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/responses/r1/submit", nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}

func TestResponseHandler_FeedbackUnavailable(t *testing.T) {
	svc := &mockResponseService{}
	feedback := &mockFeedbackService{err: service.ErrFeedbackUnavailable}
	app := newResponseTestApp(svc, feedback)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/responses/r1/feedback-suggestion", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
