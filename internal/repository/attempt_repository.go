package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursely/coursely-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDuplicateAttempt = errors.New("an attempt already exists for this student and quiz")

// AttemptRepository handles student quiz attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// GetLatest retrieves the most recent attempt for a student-quiz pair,
// ordered by taken_at descending. Returns pgx.ErrNoRows if none exists.
func (r *AttemptRepository) GetLatest(ctx context.Context, studentID, quizID uuid.UUID) (*model.StudentQuiz, error) {
	a := &model.StudentQuiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, quiz_id, taken_at, score, passed, is_latest
		 FROM student_quizzes
		 WHERE student_id = $1 AND quiz_id = $2
		 ORDER BY taken_at DESC
		 LIMIT 1`, studentID, quizID,
	).Scan(&a.ID, &a.StudentID, &a.QuizID, &a.TakenAt, &a.Score, &a.Passed, &a.IsLatest)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateWithAnswers persists a graded attempt and its full answer trail in
// one transaction. The attempt row is inserted first (the student answers
// reference it), with score and passed written once at creation.
//
// When retake is true, the previous latest attempt has its is_latest flag
// cleared inside the same transaction. The partial unique index on
// (student_id, quiz_id) WHERE is_latest turns the submit check-then-act
// race into ErrDuplicateAttempt for the losing writer.
func (r *AttemptRepository) CreateWithAnswers(ctx context.Context, a *model.StudentQuiz, answers []model.StudentAnswer, retake bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if retake {
		if _, err := tx.Exec(ctx,
			`UPDATE student_quizzes SET is_latest = FALSE
			 WHERE student_id = $1 AND quiz_id = $2 AND is_latest`,
			a.StudentID, a.QuizID,
		); err != nil {
			return fmt.Errorf("clear latest flag: %w", err)
		}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO student_quizzes (student_id, quiz_id, score, passed, is_latest)
		 VALUES ($1, $2, $3, $4, TRUE)
		 RETURNING id, taken_at`,
		a.StudentID, a.QuizID, a.Score, a.Passed,
	).Scan(&a.ID, &a.TakenAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateAttempt
		}
		return fmt.Errorf("insert attempt: %w", err)
	}
	a.IsLatest = true

	for i := range answers {
		answers[i].StudentQuizID = a.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO student_answers (student_quiz_id, question_id, answer_id)
			 VALUES ($1, $2, $3)
			 RETURNING id`,
			answers[i].StudentQuizID, answers[i].QuestionID, answers[i].AnswerID,
		).Scan(&answers[i].ID)
		if err != nil {
			return fmt.Errorf("insert student answer: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetLatestResult retrieves the latest attempt for a student-quiz pair as a
// result row with the student's name. Returns pgx.ErrNoRows if none exists.
func (r *AttemptRepository) GetLatestResult(ctx context.Context, studentID, quizID uuid.UUID) (*model.QuizResult, error) {
	res := &model.QuizResult{}
	err := r.pool.QueryRow(ctx,
		`SELECT sq.student_id, u.name, sq.score, sq.passed, sq.taken_at
		 FROM student_quizzes sq
		 JOIN users u ON u.id = sq.student_id
		 WHERE sq.student_id = $1 AND sq.quiz_id = $2
		 ORDER BY sq.taken_at DESC
		 LIMIT 1`, studentID, quizID,
	).Scan(&res.StudentID, &res.StudentName, &res.Score, &res.Passed, &res.DateTaken)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListResultsByQuiz retrieves a page of attempt rows for a quiz, historical
// retakes included, newest first, along with the total attempt count.
func (r *AttemptRepository) ListResultsByQuiz(ctx context.Context, quizID uuid.UUID, limit, offset int) ([]model.QuizResult, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM student_quizzes WHERE quiz_id = $1`, quizID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT sq.student_id, u.name, sq.score, sq.passed, sq.taken_at
		 FROM student_quizzes sq
		 JOIN users u ON u.id = sq.student_id
		 WHERE sq.quiz_id = $1
		 ORDER BY sq.taken_at DESC
		 LIMIT $2 OFFSET $3`, quizID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []model.QuizResult
	for rows.Next() {
		var res model.QuizResult
		if err := rows.Scan(&res.StudentID, &res.StudentName, &res.Score, &res.Passed, &res.DateTaken); err != nil {
			return nil, 0, err
		}
		results = append(results, res)
	}
	return results, total, rows.Err()
}
