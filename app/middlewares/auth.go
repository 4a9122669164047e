package middlewares

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/andrisetya/go-catalog/app/models"
	"github.com/andrisetya/go-catalog/app/repositories"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	ContextKeyUserID  contextKey = "user_id"
	ContextKeyIsStaff contextKey = "is_staff"
)

// UserID returns the authenticated user's id from the request context, or
// nil for an anonymous request.
func UserID(ctx context.Context) *uint {
	if id, ok := ctx.Value(ContextKeyUserID).(uint); ok {
		return &id
	}
	return nil
}

// AuthMiddleware resolves a bearer token into a user identity. Tokens are
// issued elsewhere; this service only validates the signature and checks the
// user still exists.
type AuthMiddleware struct {
	secret   []byte
	userRepo repositories.UserRepositoryImpl
}

func NewAuthMiddleware(secret string, userRepo repositories.UserRepositoryImpl) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret), userRepo: userRepo}
}

// Optional attaches the identity when a valid bearer token is present and
// lets the request through anonymously otherwise.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := m.userFromRequest(r); err == nil && user != nil {
			r = r.WithContext(withUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// Required rejects anonymous and invalid-token requests with 401.
func (m *AuthMiddleware) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		user, err := m.userFromRequest(r)
		if err != nil || user == nil {
			writeDetail(w, http.StatusUnauthorized, "Invalid token.")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// Staff is Required plus an is_staff check, for the admin write surface.
func (m *AuthMiddleware) Staff(next http.Handler) http.Handler {
	return m.Required(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isStaff, ok := r.Context().Value(ContextKeyIsStaff).(bool); !ok || !isStaff {
			writeDetail(w, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (m *AuthMiddleware) userFromRequest(r *http.Request) (*models.User, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, nil
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("token not valid: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, fmt.Errorf("user_id claim missing")
	}

	user, err := m.userRepo.FindByID(r.Context(), uint(rawID))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d no longer exists", uint(rawID))
	}
	return user, nil
}

func withUser(ctx context.Context, user *models.User) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserID, user.ID)
	return context.WithValue(ctx, ContextKeyIsStaff, user.IsStaff)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"detail": detail}); err != nil {
		log.Printf("AuthMiddleware: failed to write error body: %v", err)
	}
}
