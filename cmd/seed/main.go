package main

import (
	"context"
	"fmt"
	"time"

	"github.com/coursely/coursely-backend/internal/config"
	"github.com/coursely/coursely-backend/internal/database"
	"github.com/coursely/coursely-backend/internal/logger"
	"github.com/coursely/coursely-backend/internal/model"
	"github.com/coursely/coursely-backend/internal/repository"
	"github.com/coursely/coursely-backend/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seeds a development dataset: one instructor, a handful of students, one
// course with lessons and enrollments. Safe to rerun.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	courseRepo := repository.NewCourseRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)

	courseService := service.NewCourseService(courseRepo, log)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, log)

	fmt.Println("=== Seeding development data ===")

	instructorID := seedUser(ctx, pool, "Grace Hopper", "grace@example.com", model.RoleInstructor)
	fmt.Printf("Instructor: %s\n", instructorID)

	studentNames := []string{
		"Ada Lovelace", "Alan Turing", "Katherine Johnson",
		"Edsger Dijkstra", "Barbara Liskov",
	}
	studentIDs := make([]uuid.UUID, 0, len(studentNames))
	for i, name := range studentNames {
		email := fmt.Sprintf("student%d@example.com", i+1)
		studentIDs = append(studentIDs, seedUser(ctx, pool, name, email, model.RoleStudent))
	}
	fmt.Printf("Students: %d\n", len(studentIDs))

	course, err := courseService.CreateCourse(ctx, instructorID, &model.CreateCourseRequest{
		Name:        "Introduction to Go",
		Description: "From hello world to production services.",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create course")
	}
	fmt.Printf("Course: %s\n", course.ID)

	for _, lessonName := range []string{"Syntax and Types", "Concurrency", "Testing"} {
		lesson, err := courseService.CreateLesson(ctx, instructorID, course.ID, &model.CreateLessonRequest{
			Name: lessonName,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create lesson")
		}
		fmt.Printf("Lesson: %s (%s)\n", lessonName, lesson.ID)
	}

	for _, studentID := range studentIDs {
		if err := enrollmentService.Enroll(ctx, studentID, course.ID); err != nil {
			log.Fatal().Err(err).Msg("Failed to enroll student")
		}
	}
	fmt.Println("=== Done ===")
}

func seedUser(ctx context.Context, pool *pgxpool.Pool, name, email string, role model.Role) uuid.UUID {
	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO users (name, email, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		name, email, role,
	).Scan(&id)
	if err != nil {
		panic(fmt.Sprintf("seed user %s: %v", email, err))
	}
	return id
}
