package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/daily-report-service/internal/events"
	apperrors "github.com/spec-kit/daily-report-service/pkg/util/errorutil"
)

// TokenCookie is the cookie that carries the access token.
const TokenCookie = "token"

const identityLocalKey = "auth_identity"

// FailurePolicy decides what RequireAuth does for an unauthenticated request.
type FailurePolicy struct {
	redirectTo string
}

// RedirectTo sends unauthenticated page requests to path.
func RedirectTo(path string) FailurePolicy {
	return FailurePolicy{redirectTo: path}
}

// RaiseError fails unauthenticated requests with a 401 "Unauthorized".
func RaiseError() FailurePolicy {
	return FailurePolicy{}
}

// SessionResolver turns the request cookie into an Identity.
type SessionResolver struct {
	tokens     *TokenService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSessionResolver wires a resolver. dispatcher may be nil.
func NewSessionResolver(tokens *TokenService, dispatcher events.Dispatcher, logger *zap.Logger) *SessionResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionResolver{tokens: tokens, dispatcher: dispatcher, logger: logger}
}

// CurrentUser returns the identity for the request, or false when the cookie is
// absent or its token does not verify. The detailed cause is logged and
// published, never returned.
func (r *SessionResolver) CurrentUser(c *fiber.Ctx) (*Identity, bool) {
	if identity, ok := IdentityFromContext(c); ok {
		return identity, true
	}

	token := c.Cookies(TokenCookie)
	if token == "" {
		return nil, false
	}

	identity, err := r.tokens.VerifyAccessToken(token)
	if err != nil {
		r.reject(c, err)
		return nil, false
	}

	c.Locals(identityLocalKey, identity)
	return identity, true
}

// RequireAuth guards a route. Authenticated requests continue with the identity
// stored on the context.
func (r *SessionResolver) RequireAuth(policy FailurePolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := r.CurrentUser(c); ok {
			return c.Next()
		}
		if policy.redirectTo != "" {
			return c.Redirect(policy.redirectTo, fiber.StatusFound)
		}
		return apperrors.NewUnauthorized(ErrUnauthorized.Error())
	}
}

// IdentityFromContext returns the identity resolved earlier in the request.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	identity, ok := c.Locals(identityLocalKey).(*Identity)
	return identity, ok && identity != nil
}

func (r *SessionResolver) reject(c *fiber.Ctx, err error) {
	reason := FailureReason(err)
	r.logger.Info("session token rejected",
		zap.String("reason", reason),
		zap.String("path", c.Path()),
		zap.Error(err),
	)

	if r.dispatcher == nil {
		return
	}
	event := events.New(events.EventTokenRejected, nil, c.IP(), events.TokenRejectedPayload{
		Reason: reason,
		Path:   c.Path(),
		Detail: err.Error(),
	})
	if pubErr := r.dispatcher.Publish(c.UserContext(), event); pubErr != nil {
		r.logger.Warn("publish token rejection", zap.Error(pubErr))
	}
}

// FailureReason names the verification failure class of err.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenWrongType):
		return "wrong_type"
	case errors.Is(err, ErrTokenInvalid):
		return "invalid"
	default:
		return "verification"
	}
}
