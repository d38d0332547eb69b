// Package engine holds the pure assessment logic: structural validation,
// conditional visibility resolution, and scoring. Nothing in this package
// touches storage or transport.
package engine

import (
	"fmt"
	"strings"

	"github.com/talentflow/talentflow-api/internal/models"
)

// Validate checks an assessment against the structural rules that gate
// publishing. It never short-circuits; every violation is collected into a
// human-readable message naming the offending section or question. An empty
// result means the assessment is publishable.
func Validate(assessment models.Assessment) []string {
	var errs []string

	if strings.TrimSpace(assessment.Title) == "" {
		errs = append(errs, "assessment title is required")
	}

	sections := assessment.SectionList()
	if len(sections) == 0 {
		errs = append(errs, "assessment must have at least one section")
	}

	for sectionIndex, section := range sections {
		if strings.TrimSpace(section.Title) == "" {
			errs = append(errs, fmt.Sprintf("section %d title is required", sectionIndex+1))
		}

		if len(section.Questions) == 0 {
			errs = append(errs, fmt.Sprintf("section %q must have at least one question", section.Title))
		}

		for questionIndex, question := range section.Questions {
			if strings.TrimSpace(question.Text) == "" {
				errs = append(errs, fmt.Sprintf("question %d in section %q is required", questionIndex+1, section.Title))
			}

			if question.Conditional != nil && !question.Conditional.Value.Kind.Valid() {
				errs = append(errs, fmt.Sprintf("question %q conditional value has an unknown answer kind", question.Text))
			}

			switch question.Type {
			case models.QuestionSingleChoice, models.QuestionMultiChoice:
				if len(question.Options) < 2 {
					errs = append(errs, fmt.Sprintf("question %q must have at least 2 options", question.Text))
				}
			case models.QuestionShortText, models.QuestionLongText:
				if question.MaxLength != 0 && question.MaxLength < 1 {
					errs = append(errs, fmt.Sprintf("question %q max length must be greater than 0", question.Text))
				}
			case models.QuestionNumericRange:
				if question.Min >= question.Max {
					errs = append(errs, fmt.Sprintf("question %q min value must be less than max value", question.Text))
				}
			case models.QuestionFileUpload:
				if len(question.AcceptedTypes) == 0 {
					errs = append(errs, fmt.Sprintf("question %q must specify accepted file types", question.Text))
				}
				if question.MaxSizeMB <= 0 {
					errs = append(errs, fmt.Sprintf("question %q must specify a valid max file size", question.Text))
				}
			}
		}
	}

	return errs
}

// CheckAnswer validates a candidate answer against the question's input
// constraints before it is recorded. Scoring is unaffected by these checks.
func CheckAnswer(question models.Question, answer models.Answer) error {
	if !answer.Kind.Valid() {
		return fmt.Errorf("answer for question %q is missing or has an unknown kind", question.Text)
	}

	if question.Required && answer.IsEmpty() {
		return fmt.Errorf("question %q requires an answer", question.Text)
	}

	switch question.Type {
	case models.QuestionMultiChoice:
		if answer.Kind == models.AnswerChoices && len(answer.Choices) == 0 {
			return fmt.Errorf("question %q requires at least one selection", question.Text)
		}
	case models.QuestionShortText, models.QuestionLongText:
		limit := question.EffectiveMaxLength()
		if answer.Kind == models.AnswerText && len(answer.Text) > limit {
			return fmt.Errorf("answer exceeds maximum length of %d characters", limit)
		}
	case models.QuestionNumericRange:
		value, ok := answer.NumericValue()
		if !ok || value < question.Min || value > question.Max {
			return fmt.Errorf("answer must be a number between %v and %v", question.Min, question.Max)
		}
	}

	return nil
}
