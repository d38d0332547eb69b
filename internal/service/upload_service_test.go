package service_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/talentflow/talentflow-api/internal/models"
	"github.com/talentflow/talentflow-api/internal/repository"
	"github.com/talentflow/talentflow-api/internal/service"
)

type fakeStorage struct {
	lastName string
	size     int64
}

func (f *fakeStorage) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.lastName = name
	f.size = int64(len(data))
	return "https://files.example.com/" + name, nil
}

func setupUploadService(t *testing.T) (service.UploadService, *fakeStorage) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Assessment{}, &models.Response{}))

	assessment := models.Assessment{ID: "a1", JobID: "job-1", Title: "Screening"}
	require.NoError(t, assessment.SetSectionList([]models.Section{{
		ID:    "s1",
		Title: "Portfolio",
		Questions: []models.Question{
			{
				ID:            "q-file",
				Type:          models.QuestionFileUpload,
				Text:          "Upload your resume",
				AcceptedTypes: []string{".pdf", ".txt"},
				MaxSizeMB:     1,
			},
			{
				ID:   "q-text",
				Type: models.QuestionShortText,
				Text: "Summary",
			},
		},
	}}))
	require.NoError(t, db.Create(&assessment).Error)

	storage := &fakeStorage{}
	svc := service.NewUploadService(repository.NewAssessmentRepository(db), storage, zerolog.New(io.Discard))
	return svc, storage
}

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["file"][0]
}

func TestUploadStoresAcceptedFile(t *testing.T) {
	svc, storage := setupUploadService(t)

	header := buildFileHeader(t, "resume.txt", []byte("ten years of frontend work"))
	result, err := svc.Upload(context.Background(), "a1", "q-file", header)
	require.NoError(t, err)

	require.Equal(t, "q-file", result.QuestionID)
	require.Equal(t, "resume.txt", result.File.Name)
	require.Equal(t, int64(26), result.File.SizeBytes)
	require.NotEmpty(t, result.File.MimeType)
	require.Contains(t, result.File.URL, "resume.txt")
	require.Equal(t, "resume.txt", storage.lastName)
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	svc, _ := setupUploadService(t)

	header := buildFileHeader(t, "resume.exe", []byte("binary"))
	_, err := svc.Upload(context.Background(), "a1", "q-file", header)
	require.ErrorIs(t, err, service.ErrUploadTypeNotAllowed)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc, _ := setupUploadService(t)

	header := buildFileHeader(t, "resume.txt", bytes.Repeat([]byte("x"), 2<<20))
	_, err := svc.Upload(context.Background(), "a1", "q-file", header)
	require.ErrorIs(t, err, service.ErrUploadTooLarge)
}

func TestUploadRejectsNonFileQuestion(t *testing.T) {
	svc, _ := setupUploadService(t)

	header := buildFileHeader(t, "resume.txt", []byte("content"))
	_, err := svc.Upload(context.Background(), "a1", "q-text", header)
	require.ErrorIs(t, err, service.ErrNotFileQuestion)

	_, err = svc.Upload(context.Background(), "a1", "missing", header)
	require.ErrorIs(t, err, service.ErrQuestionNotFound)
}
