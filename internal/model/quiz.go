package model

import (
	"time"

	"github.com/google/uuid"
)

// Quiz represents a quiz attached to exactly one lesson. The Questions slice
// and the ownership chain fields (CourseID, InstructorID) are populated only
// by the eager-load repository queries.
type Quiz struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	LessonID    uuid.UUID  `json:"lesson_id"`
	CreatedAt   time.Time  `json:"created_at"`
	Questions   []Question `json:"questions,omitempty"`

	// Ownership chain: quiz → lesson → course → instructor.
	CourseID     uuid.UUID `json:"course_id,omitempty"`
	InstructorID uuid.UUID `json:"instructor_id,omitempty"`
}

// Question belongs to one quiz and references exactly one of its own answers
// as the correct one. CorrectAnswerID is nil only between the first insert
// and the backfill inside the authoring transaction.
type Question struct {
	ID              uuid.UUID  `json:"id"`
	QuizID          uuid.UUID  `json:"quiz_id"`
	Text            string     `json:"text"`
	CorrectAnswerID *uuid.UUID `json:"correct_answer_id,omitempty"`
	Answers         []Answer   `json:"answers,omitempty"`
}

// Answer belongs to one question.
type Answer struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Text       string    `json:"text"`
	IsCorrect  bool      `json:"is_correct"`
}

// ─── Authoring requests ─────────────────────────────────────────────────────

// CreateQuizRequest is the instructor payload for authoring a quiz graph.
// The structural invariants (exactly one correct answer per question, at
// least two answers, non-empty texts) are enforced by the quiz service.
type CreateQuizRequest struct {
	LessonID    uuid.UUID               `json:"lesson_id" binding:"required"`
	Title       string                  `json:"title" binding:"omitempty,max=255"`
	Description string                  `json:"description" binding:"omitempty,max=2000"`
	Questions   []CreateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// CreateQuestionRequest is one question inside an authoring request.
type CreateQuestionRequest struct {
	Text    string                `json:"text" binding:"required"`
	Answers []CreateAnswerRequest `json:"answers" binding:"required,min=2,dive"`
}

// CreateAnswerRequest is one answer option inside an authoring request.
type CreateAnswerRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// ─── Student-facing view ────────────────────────────────────────────────────

// QuizView is the student payload: the quiz graph stripped of correctness.
// Cached in Redis per quiz.
type QuizView struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Questions   []QuestionView `json:"questions"`
}

// QuestionView is a question without the correct-answer reference.
type QuestionView struct {
	ID      uuid.UUID    `json:"id"`
	Text    string       `json:"text"`
	Answers []AnswerView `json:"answers"`
}

// AnswerView is an answer option without the correctness flag.
type AnswerView struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

// View maps a fully-loaded quiz to its student-facing payload.
func (q *Quiz) View() *QuizView {
	view := &QuizView{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Questions:   make([]QuestionView, len(q.Questions)),
	}
	for i, question := range q.Questions {
		qv := QuestionView{
			ID:      question.ID,
			Text:    question.Text,
			Answers: make([]AnswerView, len(question.Answers)),
		}
		for j, answer := range question.Answers {
			qv.Answers[j] = AnswerView{ID: answer.ID, Text: answer.Text}
		}
		view.Questions[i] = qv
	}
	return view
}
