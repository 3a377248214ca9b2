package http

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/auth"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

// Locals keys set by AuthMiddleware.
const (
	LocalActor    = "actor"
	LocalIdentity = "identity"
)

// AuthMiddleware verifies the Bearer token, resolves (and if needed links) the caller's profile
// and stores the actor in c.Locals.
func AuthMiddleware(verifier ports.TokenVerifier, authUC *auth.AuthUseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return domain.Unauthenticated("authorization header required")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return domain.Unauthenticated("format: Bearer <token>")
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			return domain.Unauthenticated("empty token")
		}
		id, err := verifier.Verify(c.UserContext(), token)
		if err != nil {
			return err
		}
		profile, _, err := authUC.Resolve(c.UserContext(), *id)
		if err != nil {
			return err
		}
		c.Locals(LocalIdentity, *id)
		c.Locals(LocalActor, authUC.Actor(profile))
		return c.Next()
	}
}

// GetActor returns the actor stored by AuthMiddleware (zero value when absent).
func GetActor(c *fiber.Ctx) entity.Actor {
	a, _ := c.Locals(LocalActor).(entity.Actor)
	return a
}

// GetIdentity returns the verified token identity.
func GetIdentity(c *fiber.Ctx) ports.TokenIdentity {
	id, _ := c.Locals(LocalIdentity).(ports.TokenIdentity)
	return id
}

// RequireRole lets the request through when the actor has one of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor.ProfileID == "" {
			return domain.Unauthenticated("authentication required")
		}
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return domain.Forbidden("insufficient role")
	}
}

// RequireSystemAdmin restricts a route to system administrators.
func RequireSystemAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetActor(c).SystemAdmin {
			return domain.Forbidden("system administrator only")
		}
		return c.Next()
	}
}

// membershipChecker is implemented by *usecase.MemberUseCase.
type membershipChecker interface {
	IsMember(ctx context.Context, fundID, profileID string) (bool, error)
}

// RequireFundAccess lets admins and active members of :fundId through.
func RequireFundAccess(members membershipChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor.IsAdmin() {
			return c.Next()
		}
		ok, err := members.IsMember(c.UserContext(), c.Params("fundId"), actor.ProfileID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Forbidden("not a member of this fund")
		}
		return c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// the error handler has not run yet
			status = statusOf(err)
		}
		ev := log.Info()
		if status >= 500 {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("profile_id", GetActor(c).ProfileID).
			Msg("request")
		return err
	}
}

func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return statusByKind[domain.KindOf(err)]
}
