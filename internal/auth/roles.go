package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Masomatta/Afg-egov-portal/internal/domain"
	apperrors "github.com/Masomatta/Afg-egov-portal/pkg/util"
)

// RequireRole ensures the authenticated principal has one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Actor.Role]; !exists {
			return apperrors.NewAccessDenied("insufficient role")
		}
		return c.Next()
	}
}

// RequireOfficerLevel admits officers, department heads and admins.
func RequireOfficerLevel() fiber.Handler {
	return RequireRole(domain.RoleOfficer, domain.RoleDepartmentHead, domain.RoleAdmin)
}
