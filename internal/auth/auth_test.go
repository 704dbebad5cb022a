package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testKey = "sekrit-key"

func newTestService(t *testing.T) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testKey), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService(string(hash), "test-secret")
}

func TestIssueAndValidate(t *testing.T) {
	s := newTestService(t)
	require.True(t, s.Enabled())

	res, err := s.IssueToken(testKey, "alice")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.ClientID, "client_"))

	id, err := s.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.ClientID, id.ClientID)
	assert.Equal(t, "alice", id.Name)

	_, err = s.IssueToken("wrong", "alice")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateRejects(t *testing.T) {
	s := newTestService(t)
	res, err := s.IssueToken(testKey, "")
	require.NoError(t, err)

	other := NewService("", "another-secret")
	_, err = other.ValidateToken(res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	s.now = func() time.Time { return time.Now().Add(2 * tokenTTL) }
	_, err = s.ValidateToken(res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "client_x"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.ValidateToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashAPIKey(t *testing.T) {
	hash, err := HashAPIKey("k")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("k")))
}

func TestMiddleware(t *testing.T) {
	s := newTestService(t)
	var seen *Identity
	h := s.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	res, err := s.IssueToken(testKey, "bob")
	require.NoError(t, err)

	for _, tc := range []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"valid", "Bearer " + res.Token, http.StatusNoContent},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
	require.NotNil(t, seen)
	assert.Equal(t, "bob", seen.Name)
}

func TestMiddlewareDisabled(t *testing.T) {
	s := NewService("", "secret")
	h := s.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Nil(t, IdentityFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/boards", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTokenHandler(t *testing.T) {
	h := NewHandler(newTestService(t))

	for _, tc := range []struct {
		name   string
		body   string
		status int
	}{
		{"ok", `{"apiKey":"sekrit-key","name":"cli"}`, http.StatusOK},
		{"bad key", `{"apiKey":"nope"}`, http.StatusUnauthorized},
		{"missing key", `{}`, http.StatusBadRequest},
		{"malformed", `{`, http.StatusBadRequest},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Token(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(tc.body)))
			assert.Equal(t, tc.status, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	NewHandler(NewService("", "s")).Token(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
