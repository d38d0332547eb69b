package engine

import "github.com/talentflow/talentflow-api/internal/models"

// VisibleQuestions computes the ordered set of questions that should
// currently be presented, given the answers recorded so far. The result
// preserves the assessment's section-major, question-minor order, so the
// relative order is stable across calls.
//
// Conditional rules are single-hop: a question with a conditional is shown
// only once its gating question carries an answer equal to the configured
// value. A conditional pointing at a question that does not exist in the
// assessment fails open and never hides its question.
func VisibleQuestions(assessment models.Assessment, answers map[string]models.Answer) []models.Question {
	all := assessment.AllQuestions()

	known := make(map[string]struct{}, len(all))
	for _, question := range all {
		known[question.ID] = struct{}{}
	}

	visible := make([]models.Question, 0, len(all))
	for _, question := range all {
		if isVisible(question, known, answers) {
			visible = append(visible, question)
		}
	}

	return visible
}

func isVisible(question models.Question, known map[string]struct{}, answers map[string]models.Answer) bool {
	conditional := question.Conditional
	if conditional == nil {
		return true
	}

	// Dangling reference: treat as unconstrained rather than hiding the
	// question forever.
	if _, ok := known[conditional.DependsOn]; !ok {
		return true
	}

	answer, answered := answers[conditional.DependsOn]
	if !answered {
		return false
	}

	return answer.Equal(conditional.Value)
}
