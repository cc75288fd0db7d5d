package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mtlprog/bodyshop/internal/domain"
	"github.com/mtlprog/bodyshop/internal/repository"
)

type contextKey string

const (
	// ContextKeyStaff is the key for storing the staff principal in request context.
	ContextKeyStaff contextKey = "staff"
)

// AuthMiddleware handles Bearer token authentication for staff members.
type AuthMiddleware struct {
	staffRepo *repository.StaffRepository
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(staffRepo *repository.StaffRepository) *AuthMiddleware {
	return &AuthMiddleware{
		staffRepo: staffRepo,
	}
}

// Authenticate validates the Bearer token and adds the staff member to the
// request context. The core never authenticates beyond this lookup.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}

		token := parts[1]
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		staff, err := m.staffRepo.GetByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrStaffNotFound) {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if !staff.IsActive {
			http.Error(w, "staff inactive", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyStaff, staff)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetStaffFromContext retrieves the authenticated staff member from request context.
func GetStaffFromContext(ctx context.Context) (*domain.Staff, error) {
	staff, ok := ctx.Value(ContextKeyStaff).(*domain.Staff)
	if !ok || staff == nil {
		return nil, domain.ErrStaffNotFound
	}
	return staff, nil
}
