package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

const memberIDKey = "memberID"

// TokenParser validates a session token and returns the member id it
// carries.
type TokenParser interface {
	Parse(tokenString string) (string, error)
}

// AdminChecker resolves the administrative capability of a member. The
// check reads the caller's own member record and sits outside any core
// transaction.
type AdminChecker interface {
	IsAdmin(ctx context.Context, memberID string) (bool, error)
}

// RequireAuth resolves the caller identity from the Authorization header
// and stores the member id in request locals.
func RequireAuth(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return respondError(c, domain.ErrUnauthenticated)
		}

		memberID, err := tokens.Parse(token)
		if err != nil {
			return respondError(c, domain.ErrUnauthenticated)
		}
		c.Locals(memberIDKey, memberID)
		return c.Next()
	}
}

// memberID returns the authenticated caller's member id set by RequireAuth.
func memberID(c *fiber.Ctx) string {
	id, _ := c.Locals(memberIDKey).(string)
	return id
}

// requireAdmin returns nil only when the caller holds the admin role.
func requireAdmin(c *fiber.Ctx, admins AdminChecker) error {
	callerID := memberID(c)
	if callerID == "" {
		return domain.ErrUnauthenticated
	}
	isAdmin, err := admins.IsAdmin(c.Context(), callerID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return domain.ErrPermissionDenied
	}
	return nil
}

// RequestLogger logs method, path, status and latency for every request.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		log.Info("request",
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}
