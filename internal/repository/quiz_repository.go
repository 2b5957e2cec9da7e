package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursely/coursely-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDuplicateQuizForLesson = errors.New("a quiz already exists for this lesson")

// QuizRepository handles quiz graph data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// GetByID retrieves the full quiz aggregate: the quiz row with its
// lesson→course ownership chain, plus all questions and their answers.
// The result is the immutable snapshot the attempt engine grades against.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q, err := r.GetOwnership(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, text, correct_answer_id
		 FROM questions WHERE quiz_id = $1
		 ORDER BY created_at`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var question model.Question
		if err := rows.Scan(&question.ID, &question.QuizID, &question.Text, &question.CorrectAnswerID); err != nil {
			return nil, err
		}
		index[question.ID] = len(q.Questions)
		q.Questions = append(q.Questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	answerRows, err := r.pool.Query(ctx,
		`SELECT a.id, a.question_id, a.text, a.is_correct
		 FROM answers a
		 JOIN questions qu ON qu.id = a.question_id
		 WHERE qu.quiz_id = $1
		 ORDER BY a.created_at`, id,
	)
	if err != nil {
		return nil, err
	}
	defer answerRows.Close()

	for answerRows.Next() {
		var a model.Answer
		if err := answerRows.Scan(&a.ID, &a.QuestionID, &a.Text, &a.IsCorrect); err != nil {
			return nil, err
		}
		if i, ok := index[a.QuestionID]; ok {
			q.Questions[i].Answers = append(q.Questions[i].Answers, a)
		}
	}
	return q, answerRows.Err()
}

// GetOwnership retrieves a quiz row together with its lesson→course chain
// (course id and owning instructor id) but without questions or answers.
func (r *QuizRepository) GetOwnership(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT qz.id, qz.title, qz.description, qz.lesson_id, qz.created_at,
		        c.id, c.instructor_id
		 FROM quizzes qz
		 JOIN lessons l ON l.id = qz.lesson_id
		 JOIN courses c ON c.id = l.course_id
		 WHERE qz.id = $1`, id,
	).Scan(&q.ID, &q.Title, &q.Description, &q.LessonID, &q.CreatedAt,
		&q.CourseID, &q.InstructorID)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetByLesson retrieves the quiz attached to a lesson, if any.
func (r *QuizRepository) GetByLesson(ctx context.Context, lessonID uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, lesson_id, created_at
		 FROM quizzes WHERE lesson_id = $1`, lessonID,
	).Scan(&q.ID, &q.Title, &q.Description, &q.LessonID, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// CreateGraph persists a validated quiz graph in one transaction: the quiz,
// its questions (correct_answer_id initially NULL), their answers, and then
// the correct-answer backfill once the generated answer ids are known.
// Generated ids are written back onto the passed model.
func (r *QuizRepository) CreateGraph(ctx context.Context, q *model.Quiz) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO quizzes (title, description, lesson_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		q.Title, q.Description, q.LessonID,
	).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateQuizForLesson
		}
		return fmt.Errorf("insert quiz: %w", err)
	}

	for i := range q.Questions {
		question := &q.Questions[i]
		question.QuizID = q.ID

		err = tx.QueryRow(ctx,
			`INSERT INTO questions (quiz_id, text) VALUES ($1, $2) RETURNING id`,
			question.QuizID, question.Text,
		).Scan(&question.ID)
		if err != nil {
			return fmt.Errorf("insert question: %w", err)
		}

		var correctID uuid.UUID
		for j := range question.Answers {
			answer := &question.Answers[j]
			answer.QuestionID = question.ID

			err = tx.QueryRow(ctx,
				`INSERT INTO answers (question_id, text, is_correct)
				 VALUES ($1, $2, $3)
				 RETURNING id`,
				answer.QuestionID, answer.Text, answer.IsCorrect,
			).Scan(&answer.ID)
			if err != nil {
				return fmt.Errorf("insert answer: %w", err)
			}
			if answer.IsCorrect {
				correctID = answer.ID
			}
		}

		// Backfill: answer ids are server-assigned, so the correct-answer
		// reference can only be written after the answers exist.
		if _, err := tx.Exec(ctx,
			`UPDATE questions SET correct_answer_id = $1 WHERE id = $2`,
			correctID, question.ID,
		); err != nil {
			return fmt.Errorf("backfill correct answer: %w", err)
		}
		question.CorrectAnswerID = &correctID
	}

	return tx.Commit(ctx)
}

// Delete removes a quiz; questions, answers, attempts, and student answers
// cascade at the database level. Returns pgx.ErrNoRows if the quiz is absent.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
