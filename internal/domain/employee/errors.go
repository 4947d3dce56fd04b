package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrUnauthorized     = errors.New("unauthorized to access this employee")
	ErrSalaryNotSet     = errors.New("employee base salary is not set")
)
