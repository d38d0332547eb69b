package models

// QuestionType identifies one of the supported question variants.
type QuestionType string

const (
	// QuestionSingleChoice offers a list of options, one selectable.
	QuestionSingleChoice QuestionType = "single-choice"
	// QuestionMultiChoice offers a list of options, several selectable.
	QuestionMultiChoice QuestionType = "multi-choice"
	// QuestionShortText collects a short free-form answer.
	QuestionShortText QuestionType = "short-text"
	// QuestionLongText collects a long free-form answer.
	QuestionLongText QuestionType = "long-text"
	// QuestionNumericRange collects a number within a configured range.
	QuestionNumericRange QuestionType = "numeric-range"
	// QuestionFileUpload collects a file; only its metadata is recorded.
	QuestionFileUpload QuestionType = "file-upload"
)

const (
	// DefaultQuestionPoints is applied when the builder omits a point value.
	DefaultQuestionPoints = 10
	// DefaultShortTextMaxLength caps short text answers in characters.
	DefaultShortTextMaxLength = 200
	// DefaultLongTextMaxLength caps long text answers in characters.
	DefaultLongTextMaxLength = 500
)

// Option is one selectable entry of a choice question.
type Option struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Conditional gates a question's visibility on the answer given to another
// question in the same assessment.
type Conditional struct {
	DependsOn string `json:"depends_on"`
	Value     Answer `json:"value"`
}

// Question is a single assessment question. The Type field selects which of
// the variant-specific fields apply; the rest stay at their zero value.
type Question struct {
	ID          string       `json:"id"`
	Type        QuestionType `json:"type"`
	Text        string       `json:"text"`
	Required    bool         `json:"required"`
	Points      int          `json:"points"`
	Conditional *Conditional `json:"conditional,omitempty"`

	// Choice variants.
	Options        []Option `json:"options,omitempty"`
	CorrectAnswer  string   `json:"correct_answer,omitempty"`
	CorrectAnswers []string `json:"correct_answers,omitempty"`

	// Text variants.
	MaxLength int `json:"max_length,omitempty"`

	// Numeric range.
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step,omitempty"`
	Unit string  `json:"unit,omitempty"`

	// File upload.
	AcceptedTypes []string `json:"accepted_types,omitempty"`
	MaxSizeMB     float64  `json:"max_size_mb,omitempty"`
}

// EffectiveMaxLength resolves the character cap for text questions,
// falling back to the per-type default when unset.
func (q Question) EffectiveMaxLength() int {
	if q.MaxLength > 0 {
		return q.MaxLength
	}
	if q.Type == QuestionLongText {
		return DefaultLongTextMaxLength
	}
	return DefaultShortTextMaxLength
}

// IsChoice reports whether the question is one of the choice variants.
func (q Question) IsChoice() bool {
	return q.Type == QuestionSingleChoice || q.Type == QuestionMultiChoice
}

// IsText reports whether the question is one of the free-form text variants.
func (q Question) IsText() bool {
	return q.Type == QuestionShortText || q.Type == QuestionLongText
}
