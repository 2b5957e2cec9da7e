package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentQuiz is one graded attempt of a quiz by a student. Attempts are
// immutable after grading; a retake creates a new row and flips IsLatest on
// the previous one inside the same transaction.
type StudentQuiz struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	QuizID    uuid.UUID `json:"quiz_id"`
	TakenAt   time.Time `json:"taken_at"`
	Score     int       `json:"score"`
	Passed    bool      `json:"passed"`
	IsLatest  bool      `json:"is_latest"`
}

// StudentAnswer records one submitted answer of an attempt, correct or not.
// Rows are written once during grading and never mutated.
type StudentAnswer struct {
	ID            uuid.UUID `json:"id"`
	StudentQuizID uuid.UUID `json:"student_quiz_id"`
	QuestionID    uuid.UUID `json:"question_id"`
	AnswerID      uuid.UUID `json:"answer_id"`
}

// SubmitQuizRequest is the payload for submitting or retaking a quiz.
type SubmitQuizRequest struct {
	Answers []AnswerSubmission `json:"answers" binding:"required,min=1,dive"`
}

// AnswerSubmission pairs a question with the chosen answer.
type AnswerSubmission struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	AnswerID   uuid.UUID `json:"answer_id" binding:"required"`
}

// GradedEvent is the message published when an attempt finishes grading.
// The instructor live-results stream relays these to connected clients.
type GradedEvent struct {
	QuizID    uuid.UUID `json:"quiz_id"`
	StudentID uuid.UUID `json:"student_id"`
	Score     int       `json:"score"`
	Passed    bool      `json:"passed"`
	TakenAt   time.Time `json:"taken_at"`
}

// QuizResult is one result row as reported to students and instructors.
type QuizResult struct {
	StudentID   uuid.UUID `json:"student_id"`
	StudentName string    `json:"student_name"`
	Score       int       `json:"score"`
	Passed      bool      `json:"passed"`
	DateTaken   time.Time `json:"date_taken"`
}
