package jwt

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

var ErrMissingClaim = errors.New("token claim is missing or invalid")

// Claims is the request identity read back from a verified token.
type Claims struct {
	UserID     string
	Email      string
	EmployeeID string
	CompanyID  string
	Role       user.Role
	Type       string
}

// HasEmployee reports whether the caller is linked to an employee record.
func (c Claims) HasEmployee() bool {
	return c.EmployeeID != ""
}

// Can reports whether the caller's role grants permission.
func (c Claims) Can(permission user.Permission) bool {
	return user.HasPermission(c.Role, permission)
}

// ClaimsFromContext extracts the identity placed by jwtauth.Verifier.
// company_id and user_id are required; employee_id is optional.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	c := Claims{}
	c.UserID, _ = raw["user_id"].(string)
	c.Email, _ = raw["email"].(string)
	c.EmployeeID, _ = raw["employee_id"].(string)
	c.CompanyID, _ = raw["company_id"].(string)
	c.Type, _ = raw["type"].(string)
	role, _ := raw["role"].(string)
	c.Role = user.Role(role)

	if c.UserID == "" {
		return Claims{}, fmt.Errorf("%w: user_id", ErrMissingClaim)
	}
	if c.CompanyID == "" {
		return Claims{}, fmt.Errorf("%w: company_id", ErrMissingClaim)
	}

	return c, nil
}
