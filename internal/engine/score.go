package engine

import (
	"math"
	"strings"

	"github.com/talentflow/talentflow-api/internal/models"
)

// MultiChoicePolicy selects how multi-choice answers are graded.
type MultiChoicePolicy string

const (
	// MultiChoiceAnyCorrect awards full points when the answer contains at
	// least one configured correct option. This mirrors the historical
	// behavior of the assessment builder.
	MultiChoiceAnyCorrect MultiChoicePolicy = "any-correct"
	// MultiChoiceExactMatch awards full points only when the answer set
	// equals the configured correct set.
	MultiChoiceExactMatch MultiChoicePolicy = "exact-match"
)

// Policy tunes the scoring rules that have more than one defensible reading.
type Policy struct {
	MultiChoice MultiChoicePolicy
}

// DefaultPolicy grades multi-choice questions leniently.
func DefaultPolicy() Policy {
	return Policy{MultiChoice: MultiChoiceAnyCorrect}
}

const (
	shortTextMinWords = 10
	longTextMinWords  = 25

	// Text answers meeting the word-count floor earn this share of the
	// question's points; there is no content evaluation.
	textCreditRatio = 0.8
	// File uploads and unrecognized types earn this share when any answer
	// is present.
	presenceCreditRatio = 0.5
)

// Score grades a set of answers against the full question set and returns a
// percentage in [0, 100]. Every question contributes its points to the
// maximum regardless of visibility; unanswered questions earn nothing. The
// function is pure: the same inputs always produce the same score.
func Score(assessment models.Assessment, answers map[string]models.Answer, policy Policy) int {
	var earned, max float64

	for _, question := range assessment.AllQuestions() {
		points := float64(question.Points)
		max += points

		answer, answered := answers[question.ID]
		if !answered {
			continue
		}

		earned += points * creditRatio(question, answer, policy)
	}

	if max <= 0 {
		return 0
	}

	return int(math.Round(earned / max * 100))
}

// PassingScore reports whether a percentage clears the assessment threshold.
func PassingScore(assessment models.Assessment, score int) bool {
	return score >= assessment.PassingScorePercent
}

func creditRatio(question models.Question, answer models.Answer, policy Policy) float64 {
	switch question.Type {
	case models.QuestionSingleChoice:
		if question.CorrectAnswer != "" && answer.Kind == models.AnswerChoice && answer.Choice == question.CorrectAnswer {
			return 1
		}
		return 0

	case models.QuestionMultiChoice:
		if multiChoiceCorrect(question.CorrectAnswers, answer, policy.MultiChoice) {
			return 1
		}
		return 0

	case models.QuestionShortText, models.QuestionLongText:
		minWords := shortTextMinWords
		if question.Type == models.QuestionLongText {
			minWords = longTextMinWords
		}
		if answer.Kind == models.AnswerText && wordCount(answer.Text) >= minWords {
			return textCreditRatio
		}
		return 0

	case models.QuestionNumericRange:
		if value, ok := answer.NumericValue(); ok && value >= question.Min && value <= question.Max {
			return 1
		}
		return 0

	default:
		// File uploads and any future types: flat partial credit for
		// having answered at all.
		if answer.IsEmpty() {
			return 0
		}
		return presenceCreditRatio
	}
}

func multiChoiceCorrect(correct []string, answer models.Answer, policy MultiChoicePolicy) bool {
	if len(correct) == 0 || answer.Kind != models.AnswerChoices {
		return false
	}

	correctSet := make(map[string]struct{}, len(correct))
	for _, value := range correct {
		correctSet[value] = struct{}{}
	}

	switch policy {
	case MultiChoiceExactMatch:
		selected := make(map[string]struct{}, len(answer.Choices))
		for _, value := range answer.Choices {
			if _, ok := correctSet[value]; !ok {
				return false
			}
			selected[value] = struct{}{}
		}
		return len(selected) == len(correctSet)
	default:
		for _, value := range answer.Choices {
			if _, ok := correctSet[value]; ok {
				return true
			}
		}
		return false
	}
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
