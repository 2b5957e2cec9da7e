package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coursely/coursely-backend/internal/model"
	"github.com/google/uuid"
)

func TestGetResultForStudent(t *testing.T) {
	quiz := buildQuiz(1)
	quizzes := newFakeQuizStore()
	quizzes.add(quiz)
	results := newFakeResultStore()
	svc := NewResultService(results, quizzes)

	studentID := uuid.New()
	want := &model.QuizResult{
		StudentID:   studentID,
		StudentName: "Ada Lovelace",
		Score:       70,
		Passed:      true,
		DateTaken:   time.Now(),
	}
	results.latest[attemptKey(studentID, quiz.ID)] = want

	got, err := svc.GetResultForStudent(context.Background(), quiz.ID, studentID)
	if err != nil {
		t.Fatalf("GetResultForStudent: %v", err)
	}
	if got.Score != 70 || !got.Passed || got.StudentName != "Ada Lovelace" {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestGetResultForStudentNotFound(t *testing.T) {
	quiz := buildQuiz(1)
	quizzes := newFakeQuizStore()
	quizzes.add(quiz)
	svc := NewResultService(newFakeResultStore(), quizzes)

	_, err := svc.GetResultForStudent(context.Background(), quiz.ID, uuid.New())
	if !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("err = %v, want ErrResultNotFound", err)
	}
}

func TestGetResultsForQuizIncludesHistory(t *testing.T) {
	quiz := buildQuiz(1)
	quizzes := newFakeQuizStore()
	quizzes.add(quiz)
	results := newFakeResultStore()
	svc := NewResultService(results, quizzes)

	studentID := uuid.New()
	results.history[quiz.ID] = []model.QuizResult{
		{StudentID: studentID, Score: 100, Passed: true},
		{StudentID: studentID, Score: 40, Passed: false},
	}

	rows, _, err := svc.GetResultsForQuiz(context.Background(), quiz.ID, quiz.InstructorID, 1, 10)
	if err != nil {
		t.Fatalf("GetResultsForQuiz: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want superseded attempts included", len(rows))
	}
}

func TestGetResultsForQuizPaginates(t *testing.T) {
	quiz := buildQuiz(1)
	quizzes := newFakeQuizStore()
	quizzes.add(quiz)
	results := newFakeResultStore()
	svc := NewResultService(results, quizzes)

	for i := 0; i < 5; i++ {
		results.history[quiz.ID] = append(results.history[quiz.ID], model.QuizResult{
			StudentID: uuid.New(),
			Score:     i * 20,
		})
	}

	rows, pagination, err := svc.GetResultsForQuiz(context.Background(), quiz.ID, quiz.InstructorID, 2, 2)
	if err != nil {
		t.Fatalf("GetResultsForQuiz: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Score != 40 || rows[1].Score != 60 {
		t.Errorf("page 2 rows = %+v, want the third and fourth attempts", rows)
	}
	if pagination.Page != 2 || pagination.PerPage != 2 || pagination.TotalItems != 5 || pagination.TotalPages != 3 {
		t.Errorf("pagination = %+v", pagination)
	}
}

func TestGetResultsForQuizClampsPageParams(t *testing.T) {
	quiz := buildQuiz(1)
	quizzes := newFakeQuizStore()
	quizzes.add(quiz)
	results := newFakeResultStore()
	svc := NewResultService(results, quizzes)

	results.history[quiz.ID] = []model.QuizResult{{StudentID: uuid.New(), Score: 100}}

	rows, pagination, err := svc.GetResultsForQuiz(context.Background(), quiz.ID, quiz.InstructorID, 0, -5)
	if err != nil {
		t.Fatalf("GetResultsForQuiz: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if pagination.Page != 1 || pagination.PerPage != 10 {
		t.Errorf("pagination = %+v, want defaults applied", pagination)
	}
}

func TestGetResultsForQuizRejectsNonOwner(t *testing.T) {
	quiz := buildQuiz(1)
	quizzes := newFakeQuizStore()
	quizzes.add(quiz)
	svc := NewResultService(newFakeResultStore(), quizzes)

	_, _, err := svc.GetResultsForQuiz(context.Background(), quiz.ID, uuid.New(), 1, 10)
	if !errors.Is(err, ErrNotQuizOwner) {
		t.Fatalf("err = %v, want ErrNotQuizOwner", err)
	}
}

func TestGetResultsForQuizEmptySlice(t *testing.T) {
	quiz := buildQuiz(1)
	quizzes := newFakeQuizStore()
	quizzes.add(quiz)
	svc := NewResultService(newFakeResultStore(), quizzes)

	rows, pagination, err := svc.GetResultsForQuiz(context.Background(), quiz.ID, quiz.InstructorID, 1, 10)
	if err != nil {
		t.Fatalf("GetResultsForQuiz: %v", err)
	}
	if rows == nil {
		t.Error("rows is nil, want empty slice")
	}
	if pagination.TotalItems != 0 || pagination.TotalPages != 0 {
		t.Errorf("pagination = %+v, want zero totals", pagination)
	}
}

func TestIsInstructorOwnerOfQuizMissingQuiz(t *testing.T) {
	svc := NewResultService(newFakeResultStore(), newFakeQuizStore())

	owner, err := svc.IsInstructorOwnerOfQuiz(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("missing quiz must not be an error, got %v", err)
	}
	if owner {
		t.Error("owner = true for a missing quiz")
	}
}
