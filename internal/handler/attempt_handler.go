package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/coursely/coursely-backend/internal/middleware"
	"github.com/coursely/coursely-backend/internal/model"
	"github.com/coursely/coursely-backend/internal/response"
	"github.com/coursely/coursely-backend/internal/service"
	"github.com/coursely/coursely-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AttemptHandler handles quiz submission, retake and the student's own
// result.
type AttemptHandler struct {
	attemptService *service.AttemptService
	resultService  *service.ResultService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService, resultService *service.ResultService) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
		resultService:  resultService,
	}
}

// SubmitQuiz godoc
// POST /api/v1/student/quizzes/:quiz_id/submit
// Grades a first attempt. Fails once any attempt exists.
func (h *AttemptHandler) SubmitQuiz(c *gin.Context) {
	h.grade(c, h.attemptService.Submit)
}

// RetakeQuiz godoc
// POST /api/v1/student/quizzes/:quiz_id/retake
// Grades a fresh attempt of a previously failed quiz.
func (h *AttemptHandler) RetakeQuiz(c *gin.Context) {
	h.grade(c, h.attemptService.Retake)
}

func (h *AttemptHandler) grade(c *gin.Context, run func(ctx context.Context, quizID, studentID uuid.UUID, req *model.SubmitQuizRequest) (*model.StudentQuiz, error)) {
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

	var req model.SubmitQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := run(c.Request.Context(), quizID, claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotEnrolled):
			response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
		case errors.Is(err, service.ErrQuizAlreadyPassed):
			response.Fail(c, http.StatusConflict, response.ErrQuizAlreadyPassed)
		case errors.Is(err, service.ErrRetakeRequired):
			response.Fail(c, http.StatusConflict, response.ErrRetakeRequired)
		case errors.Is(err, service.ErrAttemptConflict):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		case errors.Is(err, service.ErrQuestionNotInQuiz):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrAnswerNotInQuestion), errors.Is(err, service.ErrDuplicateAnswer), errors.Is(err, service.ErrQuizValidation):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidAnswer)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	message := "You did not pass the quiz."
	if attempt.Passed {
		message = "You passed the quiz!"
	}
	response.Success(c, http.StatusOK, gin.H{"attempt": attempt, "message": message})
}

// GetMyResult godoc
// GET /api/v1/student/quizzes/:quiz_id/result
// Returns the student's latest result for a quiz.
func (h *AttemptHandler) GetMyResult(c *gin.Context) {
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

	result, err := h.resultService.GetResultForStudent(c.Request.Context(), quizID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResultNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrResultNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}
