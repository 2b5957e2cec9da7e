package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursely/coursely-backend/internal/model"
	"github.com/coursely/coursely-backend/internal/response"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrResultNotFound = errors.New("quiz result not found")

// ResultStore abstracts the attempt repository reads the reporter needs.
// Implemented by repository.AttemptRepository.
type ResultStore interface {
	GetLatestResult(ctx context.Context, studentID, quizID uuid.UUID) (*model.QuizResult, error)
	ListResultsByQuiz(ctx context.Context, quizID uuid.UUID, limit, offset int) ([]model.QuizResult, int, error)
}

// ResultService reports graded attempts: a student's own latest result and
// the full per-quiz history for the owning instructor.
type ResultService struct {
	attempts ResultStore
	quizzes  QuizStore
	log      zerolog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(attempts ResultStore, quizzes QuizStore) *ResultService {
	return &ResultService{
		attempts: attempts,
		quizzes:  quizzes,
		log:      log.With().Str("component", "result_service").Logger(),
	}
}

// GetResultForStudent returns the student's latest result for a quiz.
func (s *ResultService) GetResultForStudent(ctx context.Context, quizID, studentID uuid.UUID) (*model.QuizResult, error) {
	result, err := s.attempts.GetLatestResult(ctx, studentID, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("get latest result: %w", err)
	}
	return result, nil
}

// GetResultsForQuiz returns a page of recorded attempts for a quiz, newest
// first, superseded ones included. Only the owning instructor may read them.
func (s *ResultService) GetResultsForQuiz(ctx context.Context, quizID, instructorID uuid.UUID, page, perPage int) ([]model.QuizResult, *response.Pagination, error) {
	owner, err := s.IsInstructorOwnerOfQuiz(ctx, instructorID, quizID)
	if err != nil {
		return nil, nil, err
	}
	if !owner {
		return nil, nil, ErrNotQuizOwner
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	results, total, err := s.attempts.ListResultsByQuiz(ctx, quizID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, fmt.Errorf("list results: %w", err)
	}
	if results == nil {
		results = []model.QuizResult{}
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	return results, pagination, nil
}

// IsInstructorOwnerOfQuiz reports whether the instructor owns the course the
// quiz belongs to. A missing quiz is not an error, it simply means not owner.
func (s *ResultService) IsInstructorOwnerOfQuiz(ctx context.Context, instructorID, quizID uuid.UUID) (bool, error) {
	quiz, err := s.quizzes.GetOwnership(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get quiz ownership: %w", err)
	}
	return quiz.InstructorID == instructorID, nil
}
