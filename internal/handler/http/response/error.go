package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
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
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrGoogleAccountNotLinked),
		errors.Is(err, auth.ErrGoogleEmailNotVerified),
		errors.Is(err, auth.ErrInvalidOAuthState):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired), errors.Is(err, jwtauth.ErrExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, jwt.ErrMissingClaim), errors.Is(err, jwtauth.ErrNoTokenFound), errors.Is(err, jwtauth.ErrUnauthorized):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, auth.ErrGoogleSignInDisabled):
		NotFound(w, err.Error())
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrManagerAccessRequired), errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrOpenSessionExists),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrOvertimeNotPending):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrOverrideReasonRequired):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrLocationRequired):
		BadRequest(w, err.Error(), map[string]string{"location_note": "required when location is unavailable"})
	case errors.Is(err, attendance.ErrLocationExplanationRequired):
		BadRequest(w, err.Error(), map[string]string{"location_note": "required when checking out far from the check-in location"})
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrEmployeeRequired):
		Forbidden(w, err.Error())

	// Policy errors
	case errors.Is(err, policy.ErrInvalidTimeRange):
		BadRequest(w, err.Error(), map[string]string{"clock_out_time": err.Error()})
	case errors.Is(err, policy.ErrInvalidConfig):
		BadRequest(w, err.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists),
		errors.Is(err, payroll.ErrPayrollRecordAlreadyPaid),
		errors.Is(err, payroll.ErrCannotDeletePaidRecord),
		errors.Is(err, payroll.ErrNoDraftRecords):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrEmployeeHasNoBaseSalary),
		errors.Is(err, payroll.ErrNoScheduledDays),
		errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrUnauthorized):
		Forbidden(w, err.Error())

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
