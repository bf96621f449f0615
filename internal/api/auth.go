package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 12 * time.Hour

type authClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(username string) (string, time.Time, error) {
	now := h.now()
	expires := now.Add(tokenTTL)
	claims := authClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.opts.Secret))
	return signed, expires, err
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.opts.Secret), nil
		}, jwt.WithTimeFunc(h.now))
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("user", claims.Username)
		})
		next.ServeHTTP(w, r)
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	Username  string `json:"username"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if !h.authEnabled() {
		respondError(w, http.StatusNotFound, "authentication is not enabled")
		return
	}
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.opts.AdminUsername)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(h.opts.AdminPasswordHash), []byte(req.Password)) == nil
	if !userOK || !passOK {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, expires, err := h.generateToken(req.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expires.UTC().Format(time.RFC3339), Username: req.Username})
}
