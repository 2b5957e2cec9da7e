package service

import (
	"context"
	"errors"
	"testing"

	"github.com/coursely/coursely-backend/internal/model"
	"github.com/coursely/coursely-backend/internal/repository"
	"github.com/google/uuid"
)

func validQuizRequest(lessonID uuid.UUID) *model.CreateQuizRequest {
	return &model.CreateQuizRequest{
		LessonID: lessonID,
		Title:    "Checkpoint",
		Questions: []model.CreateQuestionRequest{
			{
				Text: "What does iota do?",
				Answers: []model.CreateAnswerRequest{
					{Text: "Auto-increments const values", IsCorrect: true},
					{Text: "Imports a package"},
				},
			},
		},
	}
}

func newQuizFixture() (*QuizService, *fakeQuizStore, *fakeCourseStore, *fakeOracle, *fakeQuizCache, *model.Lesson) {
	quizzes := newFakeQuizStore()
	courses := newFakeCourseStore()
	oracle := newFakeOracle()
	cache := newFakeQuizCache()

	lesson := &model.Lesson{Name: "Basics", CourseID: uuid.New()}
	_ = courses.CreateLesson(context.Background(), lesson)

	svc := NewQuizService(quizzes, courses, oracle, cache)
	return svc, quizzes, courses, oracle, cache, lesson
}

func TestCreateQuizAssignsCorrectAnswers(t *testing.T) {
	svc, _, _, _, cache, lesson := newQuizFixture()

	quiz, err := svc.Create(context.Background(), validQuizRequest(lesson.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if quiz.ID == uuid.Nil {
		t.Fatal("quiz id not assigned")
	}
	q := quiz.Questions[0]
	if q.CorrectAnswerID == nil {
		t.Fatal("correct answer not backfilled")
	}
	found := false
	for _, a := range q.Answers {
		if a.ID == *q.CorrectAnswerID {
			if !a.IsCorrect {
				t.Error("correct answer id points at a wrong answer")
			}
			found = true
		}
	}
	if !found {
		t.Error("correct answer id does not reference an answer of the question")
	}
	if cache.warmed != 1 {
		t.Errorf("cache warms = %d, want 1", cache.warmed)
	}
}

func TestCreateQuizValidation(t *testing.T) {
	svc, _, _, _, _, lesson := newQuizFixture()

	mutate := func(fn func(req *model.CreateQuizRequest)) *model.CreateQuizRequest {
		req := validQuizRequest(lesson.ID)
		fn(req)
		return req
	}

	cases := []struct {
		name string
		req  *model.CreateQuizRequest
	}{
		{"no title or description", mutate(func(r *model.CreateQuizRequest) { r.Title = ""; r.Description = "" })},
		{"nil lesson id", mutate(func(r *model.CreateQuizRequest) { r.LessonID = uuid.Nil })},
		{"no questions", mutate(func(r *model.CreateQuizRequest) { r.Questions = nil })},
		{"empty question text", mutate(func(r *model.CreateQuizRequest) { r.Questions[0].Text = "" })},
		{"single answer", mutate(func(r *model.CreateQuizRequest) {
			r.Questions[0].Answers = r.Questions[0].Answers[:1]
		})},
		{"empty answer text", mutate(func(r *model.CreateQuizRequest) { r.Questions[0].Answers[1].Text = "" })},
		{"no correct answer", mutate(func(r *model.CreateQuizRequest) {
			r.Questions[0].Answers[0].IsCorrect = false
		})},
		{"two correct answers", mutate(func(r *model.CreateQuizRequest) {
			r.Questions[0].Answers[1].IsCorrect = true
		})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			if !errors.Is(err, ErrQuizValidation) {
				t.Errorf("err = %v, want ErrQuizValidation", err)
			}
		})
	}
}

func TestCreateQuizUnknownLesson(t *testing.T) {
	svc, _, _, _, _, _ := newQuizFixture()

	_, err := svc.Create(context.Background(), validQuizRequest(uuid.New()))
	if !errors.Is(err, ErrLessonNotFound) {
		t.Fatalf("err = %v, want ErrLessonNotFound", err)
	}
}

func TestCreateQuizLessonConflict(t *testing.T) {
	svc, _, _, _, _, lesson := newQuizFixture()

	if _, err := svc.Create(context.Background(), validQuizRequest(lesson.ID)); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := svc.Create(context.Background(), validQuizRequest(lesson.ID))
	if !errors.Is(err, ErrQuizExistsForLesson) {
		t.Fatalf("err = %v, want ErrQuizExistsForLesson", err)
	}
}

func TestCreateQuizConcurrentLessonConflict(t *testing.T) {
	svc, quizzes, _, _, _, lesson := newQuizFixture()
	quizzes.createErr = repository.ErrDuplicateQuizForLesson

	_, err := svc.Create(context.Background(), validQuizRequest(lesson.ID))
	if !errors.Is(err, ErrQuizExistsForLesson) {
		t.Fatalf("err = %v, want ErrQuizExistsForLesson", err)
	}
}

func TestGetViewForLessonStripsCorrectness(t *testing.T) {
	svc, _, _, oracle, cache, lesson := newQuizFixture()

	quiz, err := svc.Create(context.Background(), validQuizRequest(lesson.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	studentID := uuid.New()
	oracle.enroll(studentID, lesson.CourseID)

	// Drop the warmed payload to force the PostgreSQL fallback.
	_ = cache.Invalidate(context.Background(), quiz.ID)

	view, err := svc.GetViewForLesson(context.Background(), lesson.ID, studentID)
	if err != nil {
		t.Fatalf("GetViewForLesson: %v", err)
	}
	if view.ID != quiz.ID {
		t.Errorf("view id = %s, want %s", view.ID, quiz.ID)
	}
	if len(view.Questions) != 1 || len(view.Questions[0].Answers) != 2 {
		t.Fatal("view lost questions or answers")
	}
	if cache.warmed != 2 {
		t.Errorf("cache warms = %d, want rewarm after miss", cache.warmed)
	}
}

func TestGetViewForLessonRequiresEnrollment(t *testing.T) {
	svc, _, _, _, _, lesson := newQuizFixture()

	if _, err := svc.Create(context.Background(), validQuizRequest(lesson.ID)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := svc.GetViewForLesson(context.Background(), lesson.ID, uuid.New())
	if !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("err = %v, want ErrNotEnrolled", err)
	}
}

func TestGetViewForLessonWithoutQuiz(t *testing.T) {
	svc, _, _, oracle, _, lesson := newQuizFixture()
	studentID := uuid.New()
	oracle.enroll(studentID, lesson.CourseID)

	_, err := svc.GetViewForLesson(context.Background(), lesson.ID, studentID)
	if !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("err = %v, want ErrQuizNotFound", err)
	}
}

func TestDeleteQuizOwnerOnly(t *testing.T) {
	svc, quizzes, _, _, _, _ := newQuizFixture()

	quiz := buildQuiz(1)
	quizzes.add(quiz)

	err := svc.Delete(context.Background(), quiz.ID, uuid.New(), model.RoleInstructor)
	if !errors.Is(err, ErrNotQuizOwner) {
		t.Fatalf("err = %v, want ErrNotQuizOwner", err)
	}

	if err := svc.Delete(context.Background(), quiz.ID, quiz.InstructorID, model.RoleInstructor); err != nil {
		t.Fatalf("owner Delete: %v", err)
	}
	if !quizzes.deleteCalled {
		t.Error("delete never reached the store")
	}
}

func TestDeleteQuizAdminOverride(t *testing.T) {
	svc, quizzes, _, _, _, _ := newQuizFixture()

	quiz := buildQuiz(1)
	quizzes.add(quiz)

	if err := svc.Delete(context.Background(), quiz.ID, uuid.New(), model.RoleAdmin); err != nil {
		t.Fatalf("admin Delete: %v", err)
	}
}

func TestDeleteQuizUnknown(t *testing.T) {
	svc, _, _, _, _, _ := newQuizFixture()

	err := svc.Delete(context.Background(), uuid.New(), uuid.New(), model.RoleAdmin)
	if !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("err = %v, want ErrQuizNotFound", err)
	}
}
