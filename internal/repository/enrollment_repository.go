package repository

import (
	"context"
	"errors"

	"github.com/coursely/coursely-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDuplicateEnrollment = errors.New("student is already enrolled in this course")

// EnrollmentRepository handles student-course enrollment data access.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Exists reports whether a student-course enrollment link exists.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM student_courses
		   WHERE student_id = $1 AND course_id = $2
		 )`, studentID, courseID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts an enrollment link.
func (r *EnrollmentRepository) Create(ctx context.Context, studentID, courseID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO student_courses (student_id, course_id) VALUES ($1, $2)`,
		studentID, courseID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEnrollment
		}
		return err
	}
	return nil
}

// Delete removes an enrollment link. Returns pgx.ErrNoRows if none existed.
func (r *EnrollmentRepository) Delete(ctx context.Context, studentID, courseID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM student_courses WHERE student_id = $1 AND course_id = $2`,
		studentID, courseID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListCoursesByStudent retrieves every course a student is enrolled in.
func (r *EnrollmentRepository) ListCoursesByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name, c.description, c.instructor_id, c.created_at
		 FROM courses c
		 JOIN student_courses sc ON sc.course_id = c.id
		 WHERE sc.student_id = $1
		 ORDER BY c.name`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.InstructorID, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
