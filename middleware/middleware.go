package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/testgcahm/gis/globals"
	"github.com/testgcahm/gis/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

var (
	ErrMissingToken = errors.New("missing or invalid Authorization header")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrForbidden    = errors.New("email not allowed")
)

// Claims are the JWT claims carried by an admin bearer token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Gate authorizes admin requests: bearer token -> verified email -> allow-list.
// Reads are public and never pass through it; every mutation does.
type Gate struct {
	secret  []byte
	allowed []string
}

func NewGate(secret []byte, allowed []string) *Gate {
	return &Gate{secret: secret, allowed: allowed}
}

// VerifyToken parses and verifies a raw token string and checks its email
// claim against the allow-list. The comparison is case-sensitive exact match.
func (g *Gate) VerifyToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return g.secret, nil
	})
	if err != nil || !token.Valid || claims.Email == "" {
		return "", ErrInvalidToken
	}
	if !slices.Contains(g.allowed, claims.Email) {
		return "", ErrForbidden
	}
	return claims.Email, nil
}

// VerifyRequest extracts the bearer token from the Authorization header and
// verifies it, returning the allow-listed email.
func (g *Gate) VerifyRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", ErrMissingToken
	}
	return g.VerifyToken(strings.TrimPrefix(header, "Bearer "))
}

// Authenticate wraps a handler so only allow-listed admins reach it. The
// verified email lands on the request context for audit and display.
func (g *Gate) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		email, err := g.VerifyRequest(r)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, ErrForbidden) {
				status = http.StatusForbidden
			}
			utils.RespondWithError(w, status, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), globals.UserEmailKey, email)
		next(w, r.WithContext(ctx), ps)
	}
}

// EmailFromContext returns the verified admin email set by Authenticate.
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(globals.UserEmailKey).(string)
	return email
}
