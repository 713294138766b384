package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, email string, secret []byte) string {
	t.Helper()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func runGate(t *testing.T, authHeader string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	gate := NewGate(testSecret, []string{"admin@example.com"})

	var seenEmail string
	handler := gate.Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		seenEmail = EmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler(rec, req, nil)
	return rec, seenEmail
}

func TestGateMissingToken(t *testing.T) {
	rec, _ := runGate(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateMalformedHeader(t *testing.T) {
	rec, _ := runGate(t, "Token abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateGarbledToken(t *testing.T) {
	rec, _ := runGate(t, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateWrongSigningKey(t *testing.T) {
	token := signToken(t, "admin@example.com", []byte("other-secret"))
	rec, _ := runGate(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateExpiredToken(t *testing.T) {
	claims := Claims{
		Email: "admin@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	rec, _ := runGate(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateMissingEmailClaim(t *testing.T) {
	token := signToken(t, "", testSecret)
	rec, _ := runGate(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateEmailNotAllowListed(t *testing.T) {
	token := signToken(t, "intruder@example.com", testSecret)
	rec, _ := runGate(t, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGateAllowListedEmailPasses(t *testing.T) {
	token := signToken(t, "admin@example.com", testSecret)
	rec, email := runGate(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@example.com", email)
}

func TestGateAllowListIsCaseSensitive(t *testing.T) {
	token := signToken(t, "Admin@example.com", testSecret)
	rec, _ := runGate(t, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
