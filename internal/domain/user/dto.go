package user

import "time"

// UserResponse represents user data in API responses
type UserResponse struct {
	ID            string  `json:"id"`
	CompanyID     *string `json:"company_id,omitempty"`
	EmployeeID    *string `json:"employee_id,omitempty"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	OAuthProvider *string `json:"oauth_provider,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		CompanyID:     u.CompanyID,
		EmployeeID:    u.EmployeeID,
		EmployeeName:  u.EmployeeName,
		Email:         u.Email,
		Role:          string(u.Role),
		OAuthProvider: u.OAuthProvider,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
	}
}
