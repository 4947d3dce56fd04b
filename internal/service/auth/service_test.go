package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"

	testCompanyID  = "0192f1a0-0000-7000-8000-00000000c001"
	testUserID     = "0192f1a0-0000-7000-8000-00000000a001"
	testEmployeeID = "0192f1a0-0000-7000-8000-00000000e001"
	testEmail      = "rina@example.com"
	testPassword   = "password123"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	for id, u := range f.users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if u.OAuthProviderID != nil && *u.OAuthProviderID != googleID {
			return user.User{}, user.ErrUserNotFound
		}
		provider := "google"
		u.OAuthProvider = &provider
		u.OAuthProviderID = &googleID
		f.users[id] = u
		return u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

type fakeTokenRepo struct {
	owners  map[string]string
	revoked map[string]bool
	session auth.SessionTrackingRequest
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{owners: map[string]string{}, revoked: map[string]bool{}}
}

func (f *fakeTokenRepo) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	f.owners[token] = userID
	f.session = session
	return nil
}

func (f *fakeTokenRepo) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	owner, ok := f.owners[token]
	if !ok {
		return "", true, nil
	}
	return owner, f.revoked[token], nil
}

func (f *fakeTokenRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	if _, ok := f.owners[token]; ok {
		f.revoked[token] = true
	}
	return nil
}

type authFixture struct {
	svc    *AuthServiceImpl
	users  *fakeUserRepo
	tokens *fakeTokenRepo
	jwt    jwt.Service
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)
	company, employee, name := testCompanyID, testEmployeeID, "Rina Wijaya"

	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)
	require.NoError(t, err)

	f := &authFixture{
		users: &fakeUserRepo{users: map[string]user.User{
			testUserID: {
				ID:           testUserID,
				CompanyID:    &company,
				Email:        testEmail,
				PasswordHash: &hashed,
				Role:         user.RoleEmployee,
				EmployeeID:   &employee,
				EmployeeName: &name,
			},
		}},
		tokens: newFakeTokenRepo(),
		jwt:    jwtService,
	}
	f.svc = NewAuthService(passthroughTx{}, f.users, jwtService, f.tokens)
	return f
}

func (f *authFixture) claimsOf(t *testing.T, token string) jwt.Claims {
	t.Helper()
	parsed, err := jwtauth.VerifyToken(f.jwt.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := jwt.ClaimsFromContext(jwtauth.NewContext(context.Background(), parsed, nil))
	require.NoError(t, err)
	return claims
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	session := auth.SessionTrackingRequest{UserAgent: "test-agent", IPAddress: "127.0.0.1"}

	resp, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "RINA@example.com", Password: testPassword}, session)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.RefreshTokenExpiresIn, resp.AccessTokenExpiresIn)
	assert.Equal(t, testUserID, f.tokens.owners[resp.RefreshToken])
	assert.Equal(t, session, f.tokens.session)

	claims := f.claimsOf(t, resp.AccessToken)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, testCompanyID, claims.CompanyID)
	assert.Equal(t, testEmployeeID, claims.EmployeeID)
	assert.Equal(t, user.RoleEmployee, claims.Role)
	assert.Equal(t, jwt.TokenTypeAccess, claims.Type)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"wrong password", testEmail, "wrongpassword"},
		{"unknown email", "nobody@example.com", testPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: tt.email, Password: tt.pass}, auth.SessionTrackingRequest{})
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		})
	}

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "not-an-email", Password: "x"}, auth.SessionTrackingRequest{})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_GoogleOnlyAccount(t *testing.T) {
	f := newAuthFixture(t)
	u := f.users.users[testUserID]
	u.PasswordHash = nil
	f.users.users[testUserID] = u

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: testEmail, Password: testPassword}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginWithGoogle(t *testing.T) {
	t.Run("links on first sign-in", func(t *testing.T) {
		f := newAuthFixture(t)

		resp, err := f.svc.LoginWithGoogle(context.Background(), auth.GoogleIdentity{GoogleID: "g-123", Email: testEmail, VerifiedEmail: true}, auth.SessionTrackingRequest{})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)

		linked := f.users.users[testUserID]
		require.NotNil(t, linked.OAuthProviderID)
		assert.Equal(t, "g-123", *linked.OAuthProviderID)
	})

	t.Run("unverified email", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.svc.LoginWithGoogle(context.Background(), auth.GoogleIdentity{GoogleID: "g-123", Email: testEmail}, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, auth.ErrGoogleEmailNotVerified)
	})

	t.Run("no account", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.svc.LoginWithGoogle(context.Background(), auth.GoogleIdentity{GoogleID: "g-999", Email: "new@example.com", VerifiedEmail: true}, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, auth.ErrGoogleAccountNotLinked)
		assert.Len(t, f.users.users, 1)
	})

	t.Run("linked to another google account", func(t *testing.T) {
		f := newAuthFixture(t)
		other := "g-other"
		u := f.users.users[testUserID]
		u.OAuthProviderID = &other
		f.users.users[testUserID] = u

		_, err := f.svc.LoginWithGoogle(context.Background(), auth.GoogleIdentity{GoogleID: "g-123", Email: testEmail, VerifiedEmail: true}, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, auth.ErrGoogleAccountNotLinked)
	})
}

func TestRefreshTokenAndLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tokens, err := f.svc.Login(ctx, auth.LoginRequest{Email: testEmail, Password: testPassword}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, testUserID, f.claimsOf(t, refreshed.AccessToken).UserID)

	// An access token is not a refresh token.
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, f.svc.Logout(ctx, tokens.RefreshToken))
	require.NoError(t, f.svc.Logout(ctx, tokens.RefreshToken))

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshToken_UnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	token, _, err := f.jwt.GenerateRefreshToken(testUserID)
	require.NoError(t, err)

	_, err = f.svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: token})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestIssueSSETokenAndMe(t *testing.T) {
	f := newAuthFixture(t)

	tokens, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: testEmail, Password: testPassword}, auth.SessionTrackingRequest{})
	require.NoError(t, err)
	parsed, err := jwtauth.VerifyToken(f.jwt.JWTAuth(), tokens.AccessToken)
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), parsed, nil)

	sse, err := f.svc.IssueSSEToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300, sse.ExpiresIn)
	assert.Equal(t, jwt.TokenTypeSSE, f.claimsOf(t, sse.Token).Type)

	me, err := f.svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, testEmail, me.Email)
	assert.Equal(t, "employee", me.Role)
	assert.Equal(t, "Rina Wijaya", *me.EmployeeName)

	_, err = f.svc.Me(context.Background())
	assert.Error(t, err)
}
