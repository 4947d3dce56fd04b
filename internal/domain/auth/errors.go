package auth

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrTokenExpired           = errors.New("token has expired")
	ErrRefreshTokenRevoked    = errors.New("refresh token has been revoked")
	ErrUserNotFound           = errors.New("user not found")
	ErrGoogleAccountNotLinked = errors.New("no account is registered for this Google email")
	ErrGoogleEmailNotVerified = errors.New("google email is not verified")
	ErrGoogleSignInDisabled   = errors.New("google sign-in is not configured")
	ErrInvalidOAuthState      = errors.New("invalid oauth state")
)
