package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/coursely/coursely-backend/internal/middleware"
	"github.com/coursely/coursely-backend/internal/model"
	"github.com/coursely/coursely-backend/internal/response"
	"github.com/coursely/coursely-backend/internal/service"
	"github.com/coursely/coursely-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuizHandler handles quiz authoring and deletion endpoints.
type QuizHandler struct {
	quizService   *service.QuizService
	resultService *service.ResultService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, resultService *service.ResultService) *QuizHandler {
	return &QuizHandler{
		quizService:   quizService,
		resultService: resultService,
	}
}

// CreateQuiz godoc
// POST /api/v1/instructor/quizzes
// Creates a quiz with its questions and answers in one call.
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizValidation):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
				"quiz": err.Error(),
			})
		case errors.Is(err, service.ErrLessonNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrQuizExistsForLesson):
			response.Fail(c, http.StatusConflict, response.ErrQuizExistsForLesson)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// DeleteQuiz godoc
// DELETE /api/v1/instructor/quizzes/:quiz_id
// Deletes a quiz with everything under it. Owner or admin only.
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), quizID, claims.UserID, claims.Role); err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotQuizOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotQuizOwner)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GetQuizResults godoc
// GET /api/v1/instructor/quizzes/:quiz_id/results
// Lists recorded attempts of a quiz, paginated, newest first. Owner only.
func (h *QuizHandler) GetQuizResults(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	results, pagination, err := h.resultService.GetResultsForQuiz(c.Request.Context(), quizID, claims.UserID, page, perPage)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotQuizOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotQuizOwner)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"results": results}, pagination)
}

// GetLessonQuiz godoc
// GET /api/v1/student/lessons/:lesson_id/quiz
// Returns the quiz payload for a lesson without correctness flags.
// The student must be enrolled in the lesson's course.
func (h *QuizHandler) GetLessonQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	lessonID, err := uuid.Parse(c.Param("lesson_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.quizService.GetViewForLesson(c.Request.Context(), lessonID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLessonNotFound), errors.Is(err, service.ErrQuizNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotEnrolled):
			response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": view})
}
