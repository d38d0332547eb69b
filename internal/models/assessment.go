package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Section groups an ordered run of questions under a common heading.
type Section struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
}

// Assessment is a titled, sectioned set of questions attached to a job
// posting. The section tree is stored as a JSON document; jobId is an opaque
// reference owned by the job-management system and is never validated here.
type Assessment struct {
	ID                  string         `gorm:"primaryKey;size:64" json:"id"`
	JobID               string         `gorm:"size:64;index" json:"job_id"`
	Title               string         `gorm:"size:255;not null" json:"title"`
	Description         string         `gorm:"type:text" json:"description"`
	Sections            datatypes.JSON `gorm:"type:json" json:"-"`
	TimeLimitMinutes    int            `json:"time_limit_minutes"`
	PassingScorePercent int            `json:"passing_score_percent"`
	IsActive            bool           `json:"is_active"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	Responses           []Response     `gorm:"foreignKey:AssessmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// SetSectionList serializes the provided sections into the JSON storage
// column. A marshal failure leaves the stored sections untouched.
func (a *Assessment) SetSectionList(sections []Section) error {
	data, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("failed to encode sections: %w", err)
	}
	a.Sections = datatypes.JSON(data)
	return nil
}

// SectionList deserializes the stored section tree.
func (a Assessment) SectionList() []Section {
	if len(a.Sections) == 0 {
		return nil
	}

	var sections []Section
	if err := json.Unmarshal(a.Sections, &sections); err != nil {
		return nil
	}

	return sections
}

// AllQuestions flattens the section tree into one section-major,
// question-minor ordered sequence.
func (a Assessment) AllQuestions() []Question {
	var questions []Question
	for _, section := range a.SectionList() {
		questions = append(questions, section.Questions...)
	}
	return questions
}

// QuestionCount returns the number of questions across all sections.
func (a Assessment) QuestionCount() int {
	count := 0
	for _, section := range a.SectionList() {
		count += len(section.Questions)
	}
	return count
}

// TotalPoints sums the point value of every question.
func (a Assessment) TotalPoints() int {
	total := 0
	for _, question := range a.AllQuestions() {
		total += question.Points
	}
	return total
}

// QuestionByID looks a question up in the flattened sequence.
func (a Assessment) QuestionByID(id string) (Question, bool) {
	for _, question := range a.AllQuestions() {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}
