package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/talentflow/talentflow-api/internal/dto"
	"github.com/talentflow/talentflow-api/internal/repository"
)

var ErrInvalidArchive = errors.New("invalid assessment archive")

// archiveSchema pins the minimum shape an imported archive must have before
// it goes anywhere near the structural validator.
const archiveSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["assessment"],
  "properties": {
    "assessment": {
      "type": "object",
      "required": ["jobId", "title", "sections"],
      "properties": {
        "jobId": {"type": "string", "minLength": 1},
        "title": {"type": "string", "minLength": 1},
        "sections": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["title", "questions"],
            "properties": {
              "title": {"type": "string"},
              "questions": {
                "type": "array",
                "items": {
                  "type": "object",
                  "required": ["type", "text"],
                  "properties": {
                    "type": {"type": "string"},
                    "text": {"type": "string"}
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

// TransferService moves assessment snapshots between environments. Export
// bundles the definition with live stats and responses; Import accepts an
// archive and recreates the definition under a fresh identity.
type TransferService interface {
	Export(ctx context.Context, assessmentID string) (dto.AssessmentArchive, error)
	Import(ctx context.Context, payload []byte) (dto.AssessmentResponse, error)
}

type transferService struct {
	assessments AssessmentService
	responses   repository.ResponseRepository
	stats       StatsService
	schema      *jsonschema.Schema
	logger      zerolog.Logger
	now         func() time.Time
}

func NewTransferService(
	assessments AssessmentService,
	responses repository.ResponseRepository,
	stats StatsService,
	logger zerolog.Logger,
) TransferService {
	schema := jsonschema.MustCompileString("archive.json", archiveSchema)
	return &transferService{
		assessments: assessments,
		responses:   responses,
		stats:       stats,
		schema:      schema,
		logger:      logger.With().Str("component", "transfer_service").Logger(),
		now:         time.Now,
	}
}

func (s *transferService) Export(ctx context.Context, assessmentID string) (dto.AssessmentArchive, error) {
	assessment, err := s.assessments.Get(ctx, assessmentID)
	if err != nil {
		return dto.AssessmentArchive{}, err
	}

	stats, err := s.stats.GetStats(ctx, assessmentID)
	if err != nil {
		return dto.AssessmentArchive{}, err
	}

	responses, err := s.responses.List(ctx, repository.ResponseFilter{AssessmentID: &assessmentID})
	if err != nil {
		return dto.AssessmentArchive{}, err
	}

	s.logger.Info().Str("assessment_id", assessmentID).Int("responses", len(responses)).Msg("assessment exported")

	return dto.AssessmentArchive{
		Assessment: assessment,
		Stats:      stats,
		Responses:  dto.NewCandidateResponseSlice(responses),
		ExportedAt: s.now(),
	}, nil
}

func (s *transferService) Import(ctx context.Context, payload []byte) (dto.AssessmentResponse, error) {
	var document any
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	if err := decoder.Decode(&document); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("%w: %s", ErrInvalidArchive, err.Error())
	}

	if err := s.schema.Validate(document); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("%w: %s", ErrInvalidArchive, err.Error())
	}

	var archive dto.AssessmentArchive
	if err := json.Unmarshal(payload, &archive); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("%w: %s", ErrInvalidArchive, err.Error())
	}

	// Responses in the archive stay behind; only the definition crosses
	// over, under a new identity.
	created, err := s.assessments.Create(ctx, dto.AssessmentSaveRequest{
		JobID:               archive.Assessment.JobID,
		Title:               archive.Assessment.Title,
		Description:         archive.Assessment.Description,
		Sections:            archive.Assessment.Sections,
		TimeLimitMinutes:    archive.Assessment.TimeLimitMinutes,
		PassingScorePercent: archive.Assessment.PassingScorePercent,
		IsActive:            false,
	})
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	s.logger.Info().Str("assessment_id", created.ID).Msg("assessment imported")
	return created, nil
}
