package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden          ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly  ErrCode = "STUDENT_ACCESS_ONLY"
	ErrInstructorOnly     ErrCode = "INSTRUCTOR_ACCESS_ONLY"
	ErrNotEnrolled        ErrCode = "NOT_ENROLLED"
	ErrNotCourseOwner     ErrCode = "NOT_COURSE_OWNER"
	ErrNotQuizOwner       ErrCode = "NOT_QUIZ_OWNER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation    ErrCode = "VALIDATION_ERROR"
	ErrInvalidID     ErrCode = "INVALID_ID"
	ErrInvalidAnswer ErrCode = "INVALID_ANSWER"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound       ErrCode = "NOT_FOUND"
	ErrConflict       ErrCode = "CONFLICT"
	ErrResultNotFound ErrCode = "RESULT_NOT_FOUND"

	// ─── Quiz lifecycle ────────────────────────────────────────────────
	ErrQuizExistsForLesson ErrCode = "QUIZ_EXISTS_FOR_LESSON"
	ErrQuizAlreadyPassed   ErrCode = "QUIZ_ALREADY_PASSED"
	ErrRetakeRequired      ErrCode = "RETAKE_REQUIRED"
	ErrAlreadyEnrolled     ErrCode = "ALREADY_ENROLLED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
// Clients branch on the code, never on this text.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrInstructorOnly:
		return "This resource is restricted to instructors."
	case ErrNotEnrolled:
		return "You are not enrolled in the course associated with this quiz."
	case ErrNotCourseOwner:
		return "You are not the instructor of this course."
	case ErrNotQuizOwner:
		return "You do not own the course this quiz belongs to."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is invalid."
	case ErrInvalidAnswer:
		return "One of the submitted answers does not belong to its question."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."
	case ErrResultNotFound:
		return "No quiz result was found."

	// ─── Quiz lifecycle ────────────────────────────────────────────────
	case ErrQuizExistsForLesson:
		return "A quiz already exists for this lesson."
	case ErrQuizAlreadyPassed:
		return "You have already passed this quiz."
	case ErrRetakeRequired:
		return "You have failed this quiz before. Use the retake endpoint to try again."
	case ErrAlreadyEnrolled:
		return "You are already enrolled in this course."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
