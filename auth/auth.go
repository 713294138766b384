// Package auth issues the admin bearer tokens the mutation endpoints verify.
package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/testgcahm/gis/middleware"
	"github.com/testgcahm/gis/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 72 * time.Hour

type Handler struct {
	secret []byte
	// credentials maps admin email to bcrypt password hash, from config.
	credentials map[string]string
	logger      *slog.Logger
}

func New(secret []byte, credentials map[string]string, logger *slog.Logger) *Handler {
	return &Handler{secret: secret, credentials: credentials, logger: logger}
}

// Login checks email and password against the configured admin credentials
// and returns a signed bearer token carrying the email claim. A token alone
// does not grant access; the gate still checks the email allow-list on every
// mutation.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	hash, ok := h.credentials[input.Email]
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	now := time.Now()
	claims := middleware.Claims{
		Email: input.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   input.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		h.logger.Error("token signing failed", "err", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	h.logger.Info("admin signed in", "email", input.Email)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"token":   token,
		"email":   input.Email,
	})
}
