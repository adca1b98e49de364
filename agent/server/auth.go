package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken  = errors.New("authorization bearer token is missing")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidToken  = errors.New("token is invalid")
	ErrMissingUserID = errors.New("token carries no user id")
)

// Identity claim names, checked in order.
var userIDClaims = []string{"id", "id_usuario"}

type userIDKey struct{}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}

func withUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// Authenticator verifies HS256 bearer tokens.
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
}

func NewAuthenticator(secret string) (*Authenticator, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Authenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}, nil
}

// UserID validates the Authorization header value and returns the caller id.
func (a *Authenticator) UserID(header string) (int64, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return 0, ErrMissingToken
	}

	claims := jwt.MapClaims{}
	_, err := a.parser.ParseWithClaims(strings.TrimSpace(token), claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return 0, ErrExpiredToken
	case err != nil:
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	for _, name := range userIDClaims {
		if id, ok := claimInt(claims[name]); ok {
			return id, nil
		}
	}
	return 0, ErrMissingUserID
}

// Middleware rejects requests without a valid token and stores the caller id
// in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := a.UserID(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), id)))
	})
}

func claimInt(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		if id == 0 || id != float64(int64(id)) {
			return 0, false
		}
		return int64(id), true
	case json.Number:
		n, err := id.Int64()
		return n, err == nil && n != 0
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		return n, err == nil && n != 0
	default:
		return 0, false
	}
}
