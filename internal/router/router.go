package router

import (
	"net/http"
	"time"

	"github.com/coursely/coursely-backend/internal/config"
	"github.com/coursely/coursely-backend/internal/handler"
	"github.com/coursely/coursely-backend/internal/middleware"
	"github.com/coursely/coursely-backend/internal/response"
	"github.com/coursely/coursely-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Quiz       *handler.QuizHandler
	Attempt    *handler.AttemptHandler
	Course     *handler.CourseHandler
	Enrollment *handler.EnrollmentHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	identity *service.IdentityService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for grading routes (10 submissions per minute per student).
	gradeLimiter := middleware.NewRateLimiter(10, time.Minute)

	// ─── 1. Student Group (JWT) ────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(middleware.RequireStudentJWT(identity))
	{
		studentAPI.GET("/courses", handlers.Enrollment.ListMyCourses)
		studentAPI.POST("/courses/:course_id/enroll", handlers.Enrollment.Enroll)
		studentAPI.DELETE("/courses/:course_id/enroll", handlers.Enrollment.Withdraw)

		studentAPI.GET("/lessons/:lesson_id/quiz", handlers.Quiz.GetLessonQuiz)
		studentAPI.GET("/quizzes/:quiz_id/result", handlers.Attempt.GetMyResult)

		studentAPI.POST("/quizzes/:quiz_id/submit", gradeLimiter.Middleware(), handlers.Attempt.SubmitQuiz)
		studentAPI.POST("/quizzes/:quiz_id/retake", gradeLimiter.Middleware(), handlers.Attempt.RetakeQuiz)
	}

	// ─── 2. Instructor Group (JWT) ─────────────────────────────────────
	instructorAPI := router.Group("/api/v1/instructor")
	instructorAPI.Use(middleware.RequireInstructorJWT(identity))
	{
		instructorAPI.POST("/courses", handlers.Course.CreateCourse)
		instructorAPI.POST("/courses/:course_id/lessons", handlers.Course.CreateLesson)

		instructorAPI.POST("/quizzes", handlers.Quiz.CreateQuiz)
		instructorAPI.DELETE("/quizzes/:quiz_id", handlers.Quiz.DeleteQuiz)
		instructorAPI.GET("/quizzes/:quiz_id/results", handlers.Quiz.GetQuizResults)
	}

	// ─── 3. WebSocket Group (Instructor WS Auth) ───────────────────────
	wsAPI := router.Group("/ws/v1")
	wsAPI.Use(middleware.RequireInstructorWSAuth(identity))
	{
		wsAPI.GET("/instructor/quizzes/:quiz_id/results", handlers.WS.ResultsStream)
	}

	return router
}
