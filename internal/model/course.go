package model

import (
	"time"

	"github.com/google/uuid"
)

// Course represents a course owned by exactly one instructor.
type Course struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	InstructorID uuid.UUID `json:"instructor_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Lesson represents a lesson inside a course. A lesson has at most one quiz.
type Lesson struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CourseID    uuid.UUID `json:"course_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCourseRequest is the payload for creating a new course.
type CreateCourseRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// CreateLessonRequest is the payload for adding a lesson to a course.
type CreateLessonRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}
