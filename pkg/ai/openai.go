package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "talentflow",
		Subsystem: "ai",
		Name:      "suggestion_duration_seconds",
		Help:      "Duration of AI feedback suggestion requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "talentflow",
		Subsystem: "ai",
		Name:      "suggestion_failures_total",
		Help:      "Number of AI feedback suggestion failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI suggester.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAISuggester implements Suggester against the OpenAI chat completion API.
type OpenAISuggester struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAISuggester builds a new suggester using the provided configuration.
func NewOpenAISuggester(cfg OpenAIConfig) (*OpenAISuggester, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}

	tracer := otel.Tracer("github.com/talentflow/talentflow-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAISuggester{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Suggest sends the response summary to OpenAI and parses the drafted feedback.
func (s *OpenAISuggester) Suggest(parent context.Context, input SuggestionInput) (Suggestion, error) {
	ctx, span := s.tracer.Start(parent, "openai.suggest", trace.WithAttributes(
		attribute.String("model", s.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: suggesterSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildUserPrompt(input),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := s.client.CreateChatCompletion(ctx, request)
	duration := time.Since(start)
	aiDuration.WithLabelValues(s.cfg.Model).Observe(duration.Seconds())
	if err != nil {
		aiFailures.WithLabelValues(s.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Suggestion{}, fmt.Errorf("openai suggest: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues(s.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Suggestion{}, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	suggestion, err := parseSuggestionResponse(content)
	if err != nil {
		aiFailures.WithLabelValues(s.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Suggestion{}, err
	}

	suggestion.Raw = map[string]interface{}{
		"usage": resp.Usage,
	}

	return suggestion, nil
}

func suggesterSystemPrompt() string {
	return "You are an assistant for hiring reviewers. Given a candidate's assessment score and answers, respond with a JSON obj" +
		"ect containing feedback (a short, professional draft addressed to the reviewer), and optional strengths and concerns arra" +
		"ys. Be factual and avoid speculation about the candidate."
}

func buildUserPrompt(input SuggestionInput) string {
	builder := strings.Builder{}
	builder.WriteString("# Assessment\n")
	builder.WriteString(input.AssessmentTitle)
	builder.WriteString("\n\n## Candidate\n")
	builder.WriteString(input.CandidateLabel)
	builder.WriteString(fmt.Sprintf("\n\n## Score\n%d (passing score %d)", input.Score, input.PassingScore))
	builder.WriteString("\n\n## Answer Summary\n")
	builder.WriteString(input.AnswerSummary)
	if len(input.TextAnswers) > 0 {
		builder.WriteString("\n\n## Written Answers\n")
		for _, answer := range input.TextAnswers {
			builder.WriteString("- ")
			builder.WriteString(answer)
			builder.WriteString("\n")
		}
	}
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}

func parseSuggestionResponse(content string) (Suggestion, error) {
	type payload struct {
		Feedback  string   `json:"feedback"`
		Strengths []string `json:"strengths"`
		Concerns  []string `json:"concerns"`
	}

	var data payload
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return Suggestion{}, fmt.Errorf("parse suggestion json: %w", err)
	}

	return Suggestion{
		Feedback:  data.Feedback,
		Strengths: data.Strengths,
		Concerns:  data.Concerns,
	}, nil
}
