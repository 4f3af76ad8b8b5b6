package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// signedToken mints a token the way the identity service does: HS256 with
// user_id as a string claim.
func signedToken(t *testing.T, tokenType string, expiresAt time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "42",
		"email":   "ari@example.com",
		"type":    tokenType,
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func recordingHandler(t *testing.T) (http.Handler, *bool, *int64) {
	called := false
	var gotUserID int64

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		// Both key spellings must resolve.
		gotUserID = r.Context().Value("userID").(int64)
		assert.Equal(t, gotUserID, r.Context().Value("user_id").(int64))
	})
	return handler, &called, &gotUserID
}

func TestAuthenticateValidToken(t *testing.T) {
	m := NewMiddleware(testSecret)
	inner, called, gotUserID := recordingHandler(t)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "access", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()

	m.Authenticate(inner).ServeHTTP(rec, req)

	assert.True(t, *called)
	assert.Equal(t, int64(42), *gotUserID)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	m := NewMiddleware(testSecret)
	inner, called, _ := recordingHandler(t)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	m.Authenticate(inner).ServeHTTP(rec, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	m := NewMiddleware(testSecret)
	inner, called, _ := recordingHandler(t)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "refresh", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()

	m.Authenticate(inner).ServeHTTP(rec, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	m := NewMiddleware(testSecret)
	inner, called, _ := recordingHandler(t)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "access", time.Now().Add(-time.Hour)))
	rec := httptest.NewRecorder()

	m.Authenticate(inner).ServeHTTP(rec, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsWrongSecret(t *testing.T) {
	m := NewMiddleware("other-secret")
	inner, called, _ := recordingHandler(t)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "access", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()

	m.Authenticate(inner).ServeHTTP(rec, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthenticateWithoutToken(t *testing.T) {
	m := NewMiddleware(testSecret)

	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := GetUserIDFromContext(r.Context())
		assert.False(t, ok)
	})

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	m.OptionalAuthenticate(inner).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}
