package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/talentflow/talentflow-api/internal/dto"
	"github.com/talentflow/talentflow-api/internal/models"
	"github.com/talentflow/talentflow-api/internal/observability"
	"github.com/talentflow/talentflow-api/internal/repository"
)

var (
	ErrUploadTooLarge       = errors.New("uploaded file exceeds the size limit")
	ErrUploadTypeNotAllowed = errors.New("uploaded file type is not accepted")
	ErrNotFileQuestion      = errors.New("question does not accept file uploads")
)

// FileStorage persists uploaded candidate files and returns a public URL.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

type UploadService interface {
	Upload(ctx context.Context, assessmentID, questionID string, header *multipart.FileHeader) (dto.UploadResponse, error)
}

type uploadService struct {
	assessments repository.AssessmentRepository
	storage     FileStorage
	logger      zerolog.Logger
	tracer      trace.Tracer
}

func NewUploadService(
	assessments repository.AssessmentRepository,
	storage FileStorage,
	logger zerolog.Logger,
) UploadService {
	return &uploadService{
		assessments: assessments,
		storage:     storage,
		logger:      logger.With().Str("component", "upload_service").Logger(),
		tracer:      otel.Tracer("github.com/talentflow/talentflow-api/internal/service/upload"),
	}
}

func (s *uploadService) Upload(ctx context.Context, assessmentID, questionID string, header *multipart.FileHeader) (dto.UploadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "upload.answer", trace.WithAttributes(
		attribute.String("assessment.id", assessmentID),
		attribute.String("question.id", questionID),
	))
	defer span.End()

	assessment, err := s.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		return dto.UploadResponse{}, ErrAssessmentNotFound
	}

	question, ok := assessment.QuestionByID(questionID)
	if !ok {
		return dto.UploadResponse{}, ErrQuestionNotFound
	}
	if question.Type != models.QuestionFileUpload {
		return dto.UploadResponse{}, ErrNotFileQuestion
	}

	maxBytes := int64(question.MaxSizeMB * 1024 * 1024)
	if header.Size > maxBytes {
		observability.UploadRejected().WithLabelValues("too_large").Inc()
		return dto.UploadResponse{}, ErrUploadTooLarge
	}
	if !extensionAccepted(header.Filename, question.AcceptedTypes) {
		observability.UploadRejected().WithLabelValues("type").Inc()
		return dto.UploadResponse{}, ErrUploadTypeNotAllowed
	}

	file, err := header.Open()
	if err != nil {
		return dto.UploadResponse{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// Size is re-checked on the stream; the multipart header is
	// client-supplied.
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return dto.UploadResponse{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > maxBytes {
		observability.UploadRejected().WithLabelValues("too_large").Inc()
		return dto.UploadResponse{}, ErrUploadTooLarge
	}

	// The declared extension gates acceptance; the sniffed type is what we
	// record.
	detected := mimetype.Detect(data)
	observability.UploadRequests().WithLabelValues(detected.String()).Inc()

	url, err := s.storage.Upload(ctx, header.Filename, bytes.NewReader(data))
	if err != nil {
		return dto.UploadResponse{}, fmt.Errorf("failed to store uploaded file: %w", err)
	}

	s.logger.Info().
		Str("question_id", questionID).
		Str("mime", detected.String()).
		Int64("size", int64(len(data))).
		Msg("answer file uploaded")

	return dto.UploadResponse{
		QuestionID: questionID,
		File: models.FileMeta{
			Name:      header.Filename,
			SizeBytes: int64(len(data)),
			MimeType:  detected.String(),
			URL:       url,
		},
	}, nil
}

func extensionAccepted(filename string, accepted []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return false
	}
	for _, allowed := range accepted {
		if strings.ToLower(allowed) == ext {
			return true
		}
	}
	return false
}
