package service

import (
	"context"
	"errors"
	"testing"

	"github.com/coursely/coursely-backend/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestCreateCourse(t *testing.T) {
	courses := newFakeCourseStore()
	svc := NewCourseService(courses, zerolog.Nop())
	instructorID := uuid.New()

	course, err := svc.CreateCourse(context.Background(), instructorID, &model.CreateCourseRequest{
		Name:        "Distributed Systems",
		Description: "Consensus, replication, failure.",
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if course.ID == uuid.Nil {
		t.Error("course id not assigned")
	}
	if course.InstructorID != instructorID {
		t.Errorf("instructor id = %s, want %s", course.InstructorID, instructorID)
	}
}

func TestCreateLessonOwnerOnly(t *testing.T) {
	courses := newFakeCourseStore()
	svc := NewCourseService(courses, zerolog.Nop())
	instructorID := uuid.New()

	course, err := svc.CreateCourse(context.Background(), instructorID, &model.CreateCourseRequest{Name: "Go 101"})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	_, err = svc.CreateLesson(context.Background(), uuid.New(), course.ID, &model.CreateLessonRequest{Name: "Intro"})
	if !errors.Is(err, ErrNotCourseOwner) {
		t.Fatalf("err = %v, want ErrNotCourseOwner", err)
	}

	lesson, err := svc.CreateLesson(context.Background(), instructorID, course.ID, &model.CreateLessonRequest{Name: "Intro"})
	if err != nil {
		t.Fatalf("CreateLesson: %v", err)
	}
	if lesson.CourseID != course.ID {
		t.Errorf("lesson course id = %s, want %s", lesson.CourseID, course.ID)
	}
}

func TestCreateLessonUnknownCourse(t *testing.T) {
	svc := NewCourseService(newFakeCourseStore(), zerolog.Nop())

	_, err := svc.CreateLesson(context.Background(), uuid.New(), uuid.New(), &model.CreateLessonRequest{Name: "Intro"})
	if !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("err = %v, want ErrCourseNotFound", err)
	}
}
