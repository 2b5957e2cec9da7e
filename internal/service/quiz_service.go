package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursely/coursely-backend/internal/model"
	"github.com/coursely/coursely-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrQuizExistsForLesson = errors.New("a quiz already exists for this lesson")
	ErrQuizValidation      = errors.New("invalid quiz structure")
	ErrNotQuizOwner        = errors.New("instructor does not own this quiz")
)

// QuizStore abstracts the quiz repository. Implemented by
// repository.QuizRepository.
type QuizStore interface {
	GetByID(ctx context.Context, quizID uuid.UUID) (*model.Quiz, error)
	GetOwnership(ctx context.Context, quizID uuid.UUID) (*model.Quiz, error)
	GetByLesson(ctx context.Context, lessonID uuid.UUID) (*model.Quiz, error)
	CreateGraph(ctx context.Context, quiz *model.Quiz) error
	Delete(ctx context.Context, quizID uuid.UUID) error
}

// QuizService owns quiz authoring, the student-facing quiz payload and quiz
// deletion.
type QuizService struct {
	quizzes QuizStore
	courses CourseStore
	oracle  EnrollmentOracle
	cache   QuizCache
	log     zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizzes QuizStore, courses CourseStore, oracle EnrollmentOracle, cache QuizCache) *QuizService {
	return &QuizService{
		quizzes: quizzes,
		courses: courses,
		oracle:  oracle,
		cache:   cache,
		log:     log.With().Str("component", "quiz_service").Logger(),
	}
}

// Create validates the full quiz graph, rejects a second quiz on the same
// lesson, and persists the graph atomically. The correct-answer references
// are resolved to server-assigned ids inside the same transaction.
func (s *QuizService) Create(ctx context.Context, req *model.CreateQuizRequest) (*model.Quiz, error) {
	if err := validateQuizGraph(req); err != nil {
		return nil, err
	}

	lesson, err := s.courses.GetLesson(ctx, req.LessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("get lesson: %w", err)
	}

	if _, err := s.quizzes.GetByLesson(ctx, lesson.ID); err == nil {
		return nil, ErrQuizExistsForLesson
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check lesson quiz: %w", err)
	}

	quiz := buildQuizGraph(req)
	if err := s.quizzes.CreateGraph(ctx, quiz); err != nil {
		if errors.Is(err, repository.ErrDuplicateQuizForLesson) {
			return nil, ErrQuizExistsForLesson
		}
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	if err := s.cache.WarmPayload(ctx, quiz.View()); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("failed to warm quiz cache")
	}

	s.log.Info().
		Str("quiz_id", quiz.ID.String()).
		Str("lesson_id", lesson.ID.String()).
		Int("questions", len(quiz.Questions)).
		Msg("quiz created")
	return quiz, nil
}

// GetViewForLesson returns the student payload for a lesson's quiz. The
// caller must be enrolled in the lesson's course. Correctness flags are
// stripped before the payload leaves the service.
func (s *QuizService) GetViewForLesson(ctx context.Context, lessonID, studentID uuid.UUID) (*model.QuizView, error) {
	lesson, err := s.courses.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("get lesson: %w", err)
	}

	enrolled, err := s.oracle.IsEnrolled(ctx, studentID, lesson.CourseID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	quiz, err := s.quizzes.GetByLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get lesson quiz: %w", err)
	}

	if view, err := s.cache.GetPayload(ctx, quiz.ID); err == nil {
		return view, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.log.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("quiz cache read failed")
	}

	full, err := s.quizzes.GetByID(ctx, quiz.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	view := full.View()
	if err := s.cache.WarmPayload(ctx, view); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("failed to warm quiz cache")
	}
	return view, nil
}

// Delete removes a quiz and its questions, answers and attempts. Only the
// owning instructor or an admin may delete.
func (s *QuizService) Delete(ctx context.Context, quizID, requesterID uuid.UUID, role model.Role) error {
	quiz, err := s.quizzes.GetOwnership(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("get quiz ownership: %w", err)
	}

	if role != model.RoleAdmin && quiz.InstructorID != requesterID {
		return ErrNotQuizOwner
	}

	if err := s.quizzes.Delete(ctx, quizID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("delete quiz: %w", err)
	}

	if err := s.cache.Invalidate(ctx, quizID); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("failed to invalidate quiz cache")
	}

	s.log.Info().Str("quiz_id", quizID.String()).Msg("quiz deleted")
	return nil
}

// validateQuizGraph enforces the structural rules for a quiz submission:
// a title or description, at least one question, each question with text and
// at least two answers, every answer with text, and exactly one correct
// answer per question.
func validateQuizGraph(req *model.CreateQuizRequest) error {
	if req.Title == "" && req.Description == "" {
		return fmt.Errorf("%w: quiz needs a title or a description", ErrQuizValidation)
	}
	if req.LessonID == uuid.Nil {
		return fmt.Errorf("%w: lesson id is required", ErrQuizValidation)
	}
	if len(req.Questions) == 0 {
		return fmt.Errorf("%w: quiz needs at least one question", ErrQuizValidation)
	}

	for i, q := range req.Questions {
		if q.Text == "" {
			return fmt.Errorf("%w: question %d has no text", ErrQuizValidation, i+1)
		}
		if len(q.Answers) < 2 {
			return fmt.Errorf("%w: question %d needs at least two answers", ErrQuizValidation, i+1)
		}
		correct := 0
		for j, a := range q.Answers {
			if a.Text == "" {
				return fmt.Errorf("%w: question %d answer %d has no text", ErrQuizValidation, i+1, j+1)
			}
			if a.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("%w: question %d must have exactly one correct answer", ErrQuizValidation, i+1)
		}
	}
	return nil
}

// buildQuizGraph maps the request onto the persistence model. Ids are left
// zero for the repository to assign.
func buildQuizGraph(req *model.CreateQuizRequest) *model.Quiz {
	quiz := &model.Quiz{
		Title:       req.Title,
		Description: req.Description,
		LessonID:    req.LessonID,
		Questions:   make([]model.Question, 0, len(req.Questions)),
	}
	for _, q := range req.Questions {
		question := model.Question{
			Text:    q.Text,
			Answers: make([]model.Answer, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			question.Answers = append(question.Answers, model.Answer{
				Text:      a.Text,
				IsCorrect: a.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz
}
