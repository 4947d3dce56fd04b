package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestGoogle(url string) *GoogleServiceImpl {
	svc := NewGoogleService("client", "secret", "http://localhost/callback").(*GoogleServiceImpl)
	svc.userInfoURL = url
	return svc
}

func TestGenerateState_Unique(t *testing.T) {
	svc := newTestGoogle("")

	a, err := svc.GenerateState()
	require.NoError(t, err)
	b, err := svc.GenerateState()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, svc.StateMatches(a, a))
	assert.False(t, svc.StateMatches(a, b))
	assert.False(t, svc.StateMatches("", ""))
}

func TestRedirectURL_CarriesState(t *testing.T) {
	svc := newTestGoogle("")
	assert.Contains(t, svc.RedirectURL("abc123"), "state=abc123")
}

func TestUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g-1","email":"staff@example.com","verified_email":true}`))
	}))
	defer srv.Close()

	account, err := newTestGoogle(srv.URL).UserInfo(context.Background(), &oauth2.Token{AccessToken: "token-1"})
	require.NoError(t, err)
	assert.Equal(t, "g-1", account.GoogleID)
	assert.Equal(t, "staff@example.com", account.Email)
	assert.True(t, account.VerifiedEmail)
}

func TestUserInfo_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestGoogle(srv.URL).UserInfo(context.Background(), &oauth2.Token{AccessToken: "expired"})
	assert.ErrorIs(t, err, ErrUserInfoUnavailable)
}
