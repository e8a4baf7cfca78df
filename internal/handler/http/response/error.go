package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/attendance"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/auth"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/incident"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/report"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Incorrect password")
	case errors.Is(err, auth.ErrUserInactive):
		Unauthorized(w, "User is inactive")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, auth.ErrForbidden),
		errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrTooManyAttempts):
		TooManyRequests(w, err.Error(), 0)

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrInvalidPassword):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrCannotModifySelf):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyClockedIn),
		errors.Is(err, attendance.ErrAlreadyClockedOut),
		errors.Is(err, attendance.ErrNoActiveSession),
		errors.Is(err, attendance.ErrPauseAlreadyActive),
		errors.Is(err, attendance.ErrNoActivePause):
		Conflict(w, err.Error())

	// Incident domain errors
	case errors.Is(err, incident.ErrRequestNotFound):
		NotFound(w, "Incident request not found")
	case errors.Is(err, incident.ErrDocumentNotFound):
		NotFound(w, "Medical justification not found")
	case errors.Is(err, incident.ErrAlreadyResolved):
		Conflict(w, "Incident request already resolved")

	// Report domain errors
	case errors.Is(err, report.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrReportGenerationFailed):
		slog.Error("report generation failed", "error", err)
		InternalServerError(w, "Failed to generate report")

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
