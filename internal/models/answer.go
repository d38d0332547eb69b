package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AnswerKind discriminates the answer payload variants.
type AnswerKind string

const (
	// AnswerText is a free-form text payload (short and long text questions).
	AnswerText AnswerKind = "text"
	// AnswerChoice is a single option value (single-choice questions).
	AnswerChoice AnswerKind = "choice"
	// AnswerChoices is a set of option values (multi-choice questions).
	AnswerChoices AnswerKind = "choices"
	// AnswerNumber is a numeric payload (numeric-range questions).
	AnswerNumber AnswerKind = "number"
	// AnswerFile is file metadata (file-upload questions, no binary content).
	AnswerFile AnswerKind = "file"
)

// Valid reports whether the kind names one of the known answer variants. The
// zero value is not valid; a payload that omits the answer entirely decodes
// to it.
func (k AnswerKind) Valid() bool {
	switch k {
	case AnswerText, AnswerChoice, AnswerChoices, AnswerNumber, AnswerFile:
		return true
	}
	return false
}

// FileMeta describes an uploaded file answer. Only metadata crosses the
// engine boundary; the binary lives in external storage.
type FileMeta struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	MimeType  string `json:"mime_type"`
	URL       string `json:"url,omitempty"`
}

// Answer is a tagged union over the answer payload variants. The engines
// select the applicable sub-case from the question's type, never from the
// answer's runtime shape.
type Answer struct {
	Kind    AnswerKind
	Text    string
	Choice  string
	Choices []string
	Number  float64
	File    *FileMeta
}

// NewTextAnswer builds a text answer.
func NewTextAnswer(text string) Answer {
	return Answer{Kind: AnswerText, Text: text}
}

// NewChoiceAnswer builds a single-choice answer.
func NewChoiceAnswer(value string) Answer {
	return Answer{Kind: AnswerChoice, Choice: value}
}

// NewChoicesAnswer builds a multi-choice answer.
func NewChoicesAnswer(values ...string) Answer {
	return Answer{Kind: AnswerChoices, Choices: values}
}

// NewNumberAnswer builds a numeric answer.
func NewNumberAnswer(value float64) Answer {
	return Answer{Kind: AnswerNumber, Number: value}
}

// NewFileAnswer builds a file-metadata answer.
func NewFileAnswer(meta FileMeta) Answer {
	return Answer{Kind: AnswerFile, File: &meta}
}

// IsEmpty reports whether the answer carries no usable payload for its kind.
func (a Answer) IsEmpty() bool {
	switch a.Kind {
	case AnswerText:
		return strings.TrimSpace(a.Text) == ""
	case AnswerChoice:
		return a.Choice == ""
	case AnswerChoices:
		return len(a.Choices) == 0
	case AnswerNumber:
		return false
	case AnswerFile:
		return a.File == nil
	default:
		return true
	}
}

// NumericValue extracts a numeric payload, parsing text answers when needed.
func (a Answer) NumericValue() (float64, bool) {
	switch a.Kind {
	case AnswerNumber:
		return a.Number, true
	case AnswerText:
		value, err := strconv.ParseFloat(strings.TrimSpace(a.Text), 64)
		if err != nil {
			return 0, false
		}
		return value, true
	default:
		return 0, false
	}
}

// Equal reports exact equality between two stored answers. Choice sets
// compare order-insensitively; file answers compare by metadata.
func (a Answer) Equal(other Answer) bool {
	if a.Kind != other.Kind {
		return false
	}

	switch a.Kind {
	case AnswerText:
		return a.Text == other.Text
	case AnswerChoice:
		return a.Choice == other.Choice
	case AnswerChoices:
		if len(a.Choices) != len(other.Choices) {
			return false
		}
		seen := make(map[string]int, len(a.Choices))
		for _, value := range a.Choices {
			seen[value]++
		}
		for _, value := range other.Choices {
			seen[value]--
			if seen[value] < 0 {
				return false
			}
		}
		return true
	case AnswerNumber:
		return a.Number == other.Number
	case AnswerFile:
		if a.File == nil || other.File == nil {
			return a.File == other.File
		}
		return a.File.Name == other.File.Name &&
			a.File.SizeBytes == other.File.SizeBytes &&
			a.File.MimeType == other.File.MimeType
	default:
		return false
	}
}

type answerJSON struct {
	Kind    AnswerKind `json:"kind"`
	Text    *string    `json:"text,omitempty"`
	Choice  *string    `json:"choice,omitempty"`
	Choices []string   `json:"choices,omitempty"`
	Number  *float64   `json:"number,omitempty"`
	File    *FileMeta  `json:"file,omitempty"`
}

// MarshalJSON serializes only the payload field matching the answer kind.
func (a Answer) MarshalJSON() ([]byte, error) {
	payload := answerJSON{Kind: a.Kind}

	switch a.Kind {
	case AnswerText:
		payload.Text = &a.Text
	case AnswerChoice:
		payload.Choice = &a.Choice
	case AnswerChoices:
		choices := a.Choices
		if choices == nil {
			choices = []string{}
		}
		payload.Choices = choices
	case AnswerNumber:
		payload.Number = &a.Number
	case AnswerFile:
		payload.File = a.File
	default:
		return nil, fmt.Errorf("unknown answer kind %q", a.Kind)
	}

	return json.Marshal(payload)
}

// UnmarshalJSON restores an answer from its stored representation.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var payload answerJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}

	restored := Answer{Kind: payload.Kind}
	switch payload.Kind {
	case AnswerText:
		if payload.Text != nil {
			restored.Text = *payload.Text
		}
	case AnswerChoice:
		if payload.Choice != nil {
			restored.Choice = *payload.Choice
		}
	case AnswerChoices:
		restored.Choices = payload.Choices
	case AnswerNumber:
		if payload.Number != nil {
			restored.Number = *payload.Number
		}
	case AnswerFile:
		restored.File = payload.File
	default:
		return fmt.Errorf("unknown answer kind %q", payload.Kind)
	}

	*a = restored
	return nil
}
