package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

// Identity headers set by the authenticating proxy in front of the API.
const (
	HeaderUserID      = "X-User-ID"
	HeaderUserRole    = "X-User-Role"
	HeaderUserCenters = "X-User-Centers"
)

const sessionKey ctxKey = "session"

// SessionMiddleware builds the caller's domain.Session from identity headers
// and rejects requests without one.
func SessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get(HeaderUserID)
		if userID == "" {
			return errUnauthorized(c, "missing "+HeaderUserID+" header")
		}
		role := domain.Role(c.Get(HeaderUserRole))
		switch role {
		case domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleLocalManager, domain.RoleDriver, domain.RoleGuest:
		default:
			return errUnauthorized(c, "unknown role "+string(role))
		}

		sess := domain.Session{
			UserID:  userID,
			Role:    role,
			Centers: domain.ParseCenters(c.Get(HeaderUserCenters)),
		}
		c.Locals(string(sessionKey), sess)

		ctx := context.WithValue(c.UserContext(), sessionKey, sess)
		ctx = context.WithValue(ctx, ctxKey("logger"), LoggerFromCtx(ctx).With("user_id", userID))
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// sessionOf returns the session stored by SessionMiddleware.
func sessionOf(c *fiber.Ctx) domain.Session {
	sess, _ := c.Locals(string(sessionKey)).(domain.Session)
	return sess
}

// SessionFromCtx returns the session carried by a request context.
func SessionFromCtx(ctx context.Context) (domain.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(domain.Session)
	return sess, ok
}
