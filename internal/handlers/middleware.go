package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"familyhub/internal/models"
	"familyhub/internal/security"
	"familyhub/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// FamilyContextKey carries the authenticated family through the request
const FamilyContextKey ContextKey = "family"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tenants   *service.TenantService
	jwtSecret []byte
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tenants *service.TenantService, jwtSecret string) *Middleware {
	return &Middleware{
		tenants:   tenants,
		jwtSecret: []byte(jwtSecret),
	}
}

// RequireAuth validates the bearer token, resolves the caller's family and
// places it in the request context. Requests without a valid token get 401.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, err := m.subjectFromRequest(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		// The token was valid; a resolution failure is an outage on our
		// side, not a bad credential.
		family, err := m.tenants.Resolve(subject)
		if err != nil {
			log.Printf("Failed to resolve family for subject: %v", err)
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), FamilyContextKey, family)
		next(w, r.WithContext(ctx))
	}
}

func (m *Middleware) subjectFromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fmt.Errorf("missing bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return subject, nil
}

// GetFamilyFromContext retrieves the authenticated family from the request context
func GetFamilyFromContext(ctx context.Context) *models.Family {
	family, ok := ctx.Value(FamilyContextKey).(*models.Family)
	if !ok {
		return nil
	}
	return family
}

// RateLimitByFamily rejects requests over the limiter's budget, keyed by the
// authenticated family. Must run inside RequireAuth.
func RateLimitByFamily(limiter *security.RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		family := GetFamilyFromContext(r.Context())
		if family != nil && !limiter.Allow(family.ID) {
			respondError(w, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
