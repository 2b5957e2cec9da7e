package service

import (
	"context"
	"time"

	"github.com/coursely/coursely-backend/internal/model"
	"github.com/coursely/coursely-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// In-memory store fakes. Missing rows are reported the way the pgx-backed
// repositories report them, with pgx.ErrNoRows.

type fakeQuizStore struct {
	quizzes      map[uuid.UUID]*model.Quiz
	byLesson     map[uuid.UUID]*model.Quiz
	createErr    error
	deleteCalled bool
}

func newFakeQuizStore() *fakeQuizStore {
	return &fakeQuizStore{
		quizzes:  make(map[uuid.UUID]*model.Quiz),
		byLesson: make(map[uuid.UUID]*model.Quiz),
	}
}

func (f *fakeQuizStore) add(q *model.Quiz) {
	f.quizzes[q.ID] = q
	f.byLesson[q.LessonID] = q
}

func (f *fakeQuizStore) GetByID(_ context.Context, quizID uuid.UUID) (*model.Quiz, error) {
	q, ok := f.quizzes[quizID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return q, nil
}

func (f *fakeQuizStore) GetOwnership(_ context.Context, quizID uuid.UUID) (*model.Quiz, error) {
	return f.GetByID(nil, quizID)
}

func (f *fakeQuizStore) GetByLesson(_ context.Context, lessonID uuid.UUID) (*model.Quiz, error) {
	q, ok := f.byLesson[lessonID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return q, nil
}

func (f *fakeQuizStore) CreateGraph(_ context.Context, quiz *model.Quiz) error {
	if f.createErr != nil {
		return f.createErr
	}
	quiz.ID = uuid.New()
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		q.ID = uuid.New()
		q.QuizID = quiz.ID
		for j := range q.Answers {
			a := &q.Answers[j]
			a.ID = uuid.New()
			a.QuestionID = q.ID
			if a.IsCorrect {
				id := a.ID
				q.CorrectAnswerID = &id
			}
		}
	}
	f.add(quiz)
	return nil
}

func (f *fakeQuizStore) Delete(_ context.Context, quizID uuid.UUID) error {
	q, ok := f.quizzes[quizID]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(f.quizzes, quizID)
	delete(f.byLesson, q.LessonID)
	f.deleteCalled = true
	return nil
}

type fakeAttemptStore struct {
	latest    map[string]*model.StudentQuiz
	saved     []*model.StudentQuiz
	answers   [][]model.StudentAnswer
	createErr error
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{latest: make(map[string]*model.StudentQuiz)}
}

func attemptKey(studentID, quizID uuid.UUID) string {
	return studentID.String() + "/" + quizID.String()
}

func (f *fakeAttemptStore) GetLatest(_ context.Context, studentID, quizID uuid.UUID) (*model.StudentQuiz, error) {
	a, ok := f.latest[attemptKey(studentID, quizID)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return a, nil
}

func (f *fakeAttemptStore) CreateWithAnswers(_ context.Context, attempt *model.StudentQuiz, answers []model.StudentAnswer, retake bool) error {
	if f.createErr != nil {
		return f.createErr
	}
	attempt.ID = uuid.New()
	attempt.TakenAt = time.Now()
	f.latest[attemptKey(attempt.StudentID, attempt.QuizID)] = attempt
	f.saved = append(f.saved, attempt)
	f.answers = append(f.answers, answers)
	return nil
}

type fakeResultStore struct {
	latest  map[string]*model.QuizResult
	history map[uuid.UUID][]model.QuizResult
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{
		latest:  make(map[string]*model.QuizResult),
		history: make(map[uuid.UUID][]model.QuizResult),
	}
}

func (f *fakeResultStore) GetLatestResult(_ context.Context, studentID, quizID uuid.UUID) (*model.QuizResult, error) {
	r, ok := f.latest[attemptKey(studentID, quizID)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r, nil
}

func (f *fakeResultStore) ListResultsByQuiz(_ context.Context, quizID uuid.UUID, limit, offset int) ([]model.QuizResult, int, error) {
	all := f.history[quizID]
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

type fakeOracle struct {
	enrolled map[string]bool
	err      error
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{enrolled: make(map[string]bool)}
}

func (f *fakeOracle) enroll(studentID, courseID uuid.UUID) {
	f.enrolled[attemptKey(studentID, courseID)] = true
}

func (f *fakeOracle) IsEnrolled(_ context.Context, studentID, courseID uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.enrolled[attemptKey(studentID, courseID)], nil
}

type fakePublisher struct {
	events []*model.GradedEvent
}

func (f *fakePublisher) PublishResult(_ context.Context, _ uuid.UUID, event *model.GradedEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeQuizCache struct {
	payloads map[uuid.UUID]*model.QuizView
	warmed   int
}

func newFakeQuizCache() *fakeQuizCache {
	return &fakeQuizCache{payloads: make(map[uuid.UUID]*model.QuizView)}
}

func (f *fakeQuizCache) WarmPayload(_ context.Context, view *model.QuizView) error {
	f.payloads[view.ID] = view
	f.warmed++
	return nil
}

func (f *fakeQuizCache) GetPayload(_ context.Context, quizID uuid.UUID) (*model.QuizView, error) {
	v, ok := f.payloads[quizID]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (f *fakeQuizCache) Invalidate(_ context.Context, quizID uuid.UUID) error {
	delete(f.payloads, quizID)
	return nil
}

type fakeEnrollmentStore struct {
	rows map[string]bool
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{rows: make(map[string]bool)}
}

func (f *fakeEnrollmentStore) Exists(_ context.Context, studentID, courseID uuid.UUID) (bool, error) {
	return f.rows[attemptKey(studentID, courseID)], nil
}

func (f *fakeEnrollmentStore) Create(_ context.Context, studentID, courseID uuid.UUID) error {
	key := attemptKey(studentID, courseID)
	if f.rows[key] {
		return repository.ErrDuplicateEnrollment
	}
	f.rows[key] = true
	return nil
}

func (f *fakeEnrollmentStore) Delete(_ context.Context, studentID, courseID uuid.UUID) error {
	key := attemptKey(studentID, courseID)
	if !f.rows[key] {
		return pgx.ErrNoRows
	}
	delete(f.rows, key)
	return nil
}

func (f *fakeEnrollmentStore) ListCoursesByStudent(_ context.Context, _ uuid.UUID) ([]model.Course, error) {
	return nil, nil
}

type fakeCourseStore struct {
	courses map[uuid.UUID]*model.Course
	lessons map[uuid.UUID]*model.Lesson
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{
		courses: make(map[uuid.UUID]*model.Course),
		lessons: make(map[uuid.UUID]*model.Lesson),
	}
}

func (f *fakeCourseStore) GetCourse(_ context.Context, id uuid.UUID) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeCourseStore) CreateCourse(_ context.Context, c *model.Course) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	f.courses[c.ID] = c
	return nil
}

func (f *fakeCourseStore) GetLesson(_ context.Context, id uuid.UUID) (*model.Lesson, error) {
	l, ok := f.lessons[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return l, nil
}

func (f *fakeCourseStore) CreateLesson(_ context.Context, l *model.Lesson) error {
	l.ID = uuid.New()
	l.CreatedAt = time.Now()
	f.lessons[l.ID] = l
	return nil
}
