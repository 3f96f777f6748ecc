package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/daily-report-service/internal/domain"
	apperrors "github.com/spec-kit/daily-report-service/pkg/util/errorutil"
)

// IsAdmin reports whether the identity holds the administrator role.
func IsAdmin(identity *Identity) bool {
	return identity != nil && identity.Role.IsAdmin()
}

// IsManager reports whether the identity holds at least the manager role.
func IsManager(identity *Identity) bool {
	return identity != nil && identity.Role.IsManager()
}

// RequireRole ensures the resolved identity has one of the allowed roles.
// It must run after RequireAuth.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(ErrUnauthorized.Error())
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
