package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/coursely/coursely-backend/internal/model"
	"github.com/coursely/coursely-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotEnrolled         = errors.New("student is not enrolled in the course")
	ErrQuizAlreadyPassed   = errors.New("quiz already passed")
	ErrRetakeRequired      = errors.New("quiz already attempted, retake instead")
	ErrAttemptConflict     = errors.New("a concurrent attempt was recorded first")
	ErrQuestionNotInQuiz   = errors.New("question does not belong to this quiz")
	ErrAnswerNotInQuestion = errors.New("answer does not belong to this question")
	ErrDuplicateAnswer     = errors.New("question answered more than once")
)

// passThreshold is the fraction of questions a student must answer correctly.
const passThreshold = 0.7

// EnrollmentOracle answers the single question the attempt engine and the
// quiz payload need: is this student enrolled in this course. Implemented by
// EnrollmentService.
type EnrollmentOracle interface {
	IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
}

// AttemptStore abstracts the attempt repository writes the engine needs.
// Implemented by repository.AttemptRepository.
type AttemptStore interface {
	GetLatest(ctx context.Context, studentID, quizID uuid.UUID) (*model.StudentQuiz, error)
	CreateWithAnswers(ctx context.Context, attempt *model.StudentQuiz, answers []model.StudentAnswer, retake bool) error
}

// AttemptService runs the submit and retake state machine. Grading happens
// against an immutable quiz snapshot loaded at the start of the call, and the
// attempt plus its answers are persisted in one transaction.
type AttemptService struct {
	quizzes   QuizStore
	attempts  AttemptStore
	oracle    EnrollmentOracle
	publisher ResultPublisher
	log       zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(quizzes QuizStore, attempts AttemptStore, oracle EnrollmentOracle, publisher ResultPublisher) *AttemptService {
	return &AttemptService{
		quizzes:   quizzes,
		attempts:  attempts,
		oracle:    oracle,
		publisher: publisher,
		log:       log.With().Str("component", "attempt_service").Logger(),
	}
}

// Submit grades a student's first attempt of a quiz. It fails with
// ErrRetakeRequired once any attempt exists and with ErrQuizAlreadyPassed
// once a passing one does. Nothing is persisted when grading fails.
func (s *AttemptService) Submit(ctx context.Context, quizID, studentID uuid.UUID, req *model.SubmitQuizRequest) (*model.StudentQuiz, error) {
	quiz, err := s.loadQuizForStudent(ctx, quizID, studentID)
	if err != nil {
		return nil, err
	}

	last, err := s.attempts.GetLatest(ctx, studentID, quizID)
	if err == nil {
		if last.Passed {
			return nil, ErrQuizAlreadyPassed
		}
		return nil, ErrRetakeRequired
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get latest attempt: %w", err)
	}

	return s.gradeAndPersist(ctx, quiz, studentID, req, false)
}

// Retake grades a fresh attempt of an already-attempted quiz. It fails with
// ErrQuizAlreadyPassed when the latest attempt passed. The previous latest
// attempt is demoted in the same transaction that records the new one.
func (s *AttemptService) Retake(ctx context.Context, quizID, studentID uuid.UUID, req *model.SubmitQuizRequest) (*model.StudentQuiz, error) {
	quiz, err := s.loadQuizForStudent(ctx, quizID, studentID)
	if err != nil {
		return nil, err
	}

	retake := false
	last, err := s.attempts.GetLatest(ctx, studentID, quizID)
	switch {
	case err == nil:
		if last.Passed {
			return nil, ErrQuizAlreadyPassed
		}
		retake = true
	case errors.Is(err, pgx.ErrNoRows):
		// No prior attempt; grade it as a first submission.
	default:
		return nil, fmt.Errorf("get latest attempt: %w", err)
	}

	return s.gradeAndPersist(ctx, quiz, studentID, req, retake)
}

func (s *AttemptService) loadQuizForStudent(ctx context.Context, quizID, studentID uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	enrolled, err := s.oracle.IsEnrolled(ctx, studentID, quiz.CourseID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}
	return quiz, nil
}

func (s *AttemptService) gradeAndPersist(ctx context.Context, quiz *model.Quiz, studentID uuid.UUID, req *model.SubmitQuizRequest, retake bool) (*model.StudentQuiz, error) {
	outcome, err := gradeSubmission(quiz, req.Answers)
	if err != nil {
		return nil, err
	}

	attempt := &model.StudentQuiz{
		StudentID: studentID,
		QuizID:    quiz.ID,
		Score:     outcome.Score,
		Passed:    outcome.Passed,
		IsLatest:  true,
	}
	if err := s.attempts.CreateWithAnswers(ctx, attempt, outcome.Answers, retake); err != nil {
		if errors.Is(err, repository.ErrDuplicateAttempt) {
			return nil, ErrAttemptConflict
		}
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	event := &model.GradedEvent{
		QuizID:    quiz.ID,
		StudentID: studentID,
		Score:     attempt.Score,
		Passed:    attempt.Passed,
		TakenAt:   attempt.TakenAt,
	}
	if err := s.publisher.PublishResult(ctx, quiz.ID, event); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("failed to publish graded attempt")
	}

	s.log.Info().
		Str("quiz_id", quiz.ID.String()).
		Str("student_id", studentID.String()).
		Int("score", attempt.Score).
		Bool("passed", attempt.Passed).
		Bool("retake", retake).
		Msg("attempt graded")
	return attempt, nil
}

// gradeOutcome holds the verdict of grading one submission.
type gradeOutcome struct {
	Score   int
	Passed  bool
	Answers []model.StudentAnswer
}

// gradeSubmission grades a submission against a quiz snapshot. Every
// submitted question must belong to the quiz, every submitted answer must
// belong to its question, and no question may be answered twice. Unanswered
// questions count as wrong. The score is the integer percentage of correct
// answers; passing requires ceil(questions * 0.7) correct.
func gradeSubmission(quiz *model.Quiz, subs []model.AnswerSubmission) (*gradeOutcome, error) {
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("%w: quiz has no questions", ErrQuizValidation)
	}

	questions := make(map[uuid.UUID]*model.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		questions[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	correct := 0
	seen := make(map[uuid.UUID]struct{}, len(subs))
	answers := make([]model.StudentAnswer, 0, len(subs))
	for _, sub := range subs {
		question, ok := questions[sub.QuestionID]
		if !ok {
			return nil, fmt.Errorf("question %s: %w", sub.QuestionID, ErrQuestionNotInQuiz)
		}
		if _, dup := seen[sub.QuestionID]; dup {
			return nil, fmt.Errorf("question %s: %w", sub.QuestionID, ErrDuplicateAnswer)
		}
		seen[sub.QuestionID] = struct{}{}

		valid := false
		for _, a := range question.Answers {
			if a.ID == sub.AnswerID {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("answer %s: %w", sub.AnswerID, ErrAnswerNotInQuestion)
		}

		if question.CorrectAnswerID != nil && *question.CorrectAnswerID == sub.AnswerID {
			correct++
		}
		answers = append(answers, model.StudentAnswer{
			QuestionID: sub.QuestionID,
			AnswerID:   sub.AnswerID,
		})
	}

	total := len(quiz.Questions)
	required := int(math.Ceil(float64(total) * passThreshold))
	return &gradeOutcome{
		Score:   correct * 100 / total,
		Passed:  correct >= required,
		Answers: answers,
	}, nil
}
