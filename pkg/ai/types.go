package ai

import "context"

// SuggestionInput describes a completed assessment response for the
// feedback model. Free-text answers are included verbatim; choice and
// numeric answers arrive pre-summarized.
type SuggestionInput struct {
	AssessmentTitle string
	CandidateLabel  string
	Score           int
	PassingScore    int
	AnswerSummary   string
	TextAnswers     []string
}

// Suggestion is the feedback draft returned by the model. It is a starting
// point for the reviewer, never sent to candidates directly.
type Suggestion struct {
	Feedback  string                 `json:"feedback"`
	Strengths []string               `json:"strengths,omitempty"`
	Concerns  []string               `json:"concerns,omitempty"`
	Raw       map[string]interface{} `json:"raw,omitempty"`
}

// Suggester describes an AI model capable of drafting reviewer feedback.
type Suggester interface {
	Suggest(ctx context.Context, input SuggestionInput) (Suggestion, error)
}
