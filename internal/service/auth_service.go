package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/daily-report-service/internal/auth"
	"github.com/spec-kit/daily-report-service/internal/domain"
	"github.com/spec-kit/daily-report-service/internal/events"
	"github.com/spec-kit/daily-report-service/internal/limiter"
	"github.com/spec-kit/daily-report-service/internal/repository"
	apperrors "github.com/spec-kit/daily-report-service/pkg/util/errorutil"
)

const invalidCredentials = "invalid email or password"

// LoginResult is returned by a successful login.
type LoginResult struct {
	Sales *domain.Sales
	Pair  *auth.TokenPair
}

// AuthService coordinates login, refresh and password flows.
type AuthService struct {
	sales        repository.SalesRepository
	history      repository.PasswordHistoryRepository
	tokens       *auth.TokenService
	limiter      *limiter.LoginLimiter
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	historyDepth int

	verifyPassword func(password, hash string) (bool, error)
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	SalesRepo            repository.SalesRepository
	PasswordHistoryRepo  repository.PasswordHistoryRepository
	Tokens               *auth.TokenService
	Limiter              *limiter.LoginLimiter
	Dispatcher           events.Dispatcher
	Logger               *zap.Logger
	PasswordHistoryDepth int
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		sales:        deps.SalesRepo,
		history:      deps.PasswordHistoryRepo,
		tokens:       deps.Tokens,
		limiter:      deps.Limiter,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		historyDepth: deps.PasswordHistoryDepth,

		verifyPassword: auth.VerifyPassword,
	}
}

// Login authenticates a sales account and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*LoginResult, error) {
	email = strings.TrimSpace(email)

	decision, err := s.limiter.Attempt(ctx, email)
	if err != nil {
		s.logger.Warn("login limiter unavailable", zap.Error(err))
	}
	if !decision.Allowed {
		s.publish(ctx, events.New(events.EventLoginFailed, nil, ip, events.LoginFailedPayload{Email: email, Reason: "rate_limited"}))
		return nil, apperrors.NewTooManyRequests("too many login attempts", int(decision.RetryAfter.Seconds()))
	}

	sales, err := s.sales.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_, _ = s.verifyPassword(password, auth.DummyHash())
			return nil, s.loginFailed(ctx, email, ip, "unknown_email")
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("load account: %w", err))
	}

	ok, err := s.verifyPassword(password, sales.PasswordHash)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordEmpty) {
			return nil, s.loginFailed(ctx, email, ip, "empty_password")
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("verify password for account %d: %w", sales.ID, err))
	}
	if !ok {
		return nil, s.loginFailed(ctx, email, ip, "wrong_password")
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.logger.Warn("reset login limiter", zap.Error(err))
	}

	pair, err := s.tokens.GenerateTokenPair(auth.ClaimsFromSales(sales))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.New(events.EventLoginSucceeded, &sales.ID, ip, nil))
	return &LoginResult{Sales: sales, Pair: pair}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email, ip, reason string) error {
	s.publish(ctx, events.New(events.EventLoginFailed, nil, ip, events.LoginFailedPayload{Email: email, Reason: reason}))
	return apperrors.NewUnauthorized(invalidCredentials)
}

// Refresh exchanges a refresh token for a new pair built from the account's current state.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, ip string) (*auth.TokenPair, error) {
	pair, err := s.tokens.RefreshTokenPair(ctx, refreshToken, s.AccountLookup)
	if err != nil {
		s.logger.Info("refresh rejected", zap.String("reason", auth.FailureReason(err)), zap.Error(err))
		return nil, tokenError(err)
	}

	s.publish(ctx, events.New(events.EventTokenRefreshed, nil, ip, nil))
	return pair, nil
}

// AccountLookup resolves the current claims for an account id.
func (s *AuthService) AccountLookup(ctx context.Context, salesID int64) (auth.AccessClaims, bool, error) {
	sales, err := s.sales.GetByID(ctx, salesID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.AccessClaims{}, false, nil
		}
		return auth.AccessClaims{}, false, err
	}
	return auth.ClaimsFromSales(sales), true, nil
}

// Logout records the logout. Tokens are stateless, so nothing is revoked.
func (s *AuthService) Logout(ctx context.Context, identity *auth.Identity, ip string) {
	var salesID *int64
	if identity != nil {
		salesID = &identity.SalesID
	}
	s.publish(ctx, events.New(events.EventLogout, salesID, ip, nil))
}

// ChangePasswordInput carries a password change request.
type ChangePasswordInput struct {
	CurrentPassword    string
	NewPassword        string
	NewPasswordConfirm string
}

// ChangePassword verifies the current password, then stores the new hash unless
// it matches the current one or any recent one.
func (s *AuthService) ChangePassword(ctx context.Context, salesID int64, in ChangePasswordInput, ip string) error {
	if in.NewPassword != in.NewPasswordConfirm {
		return apperrors.NewValidationError("validation failed", map[string]any{
			"new_password_confirm": []string{"passwords do not match"},
		})
	}
	if strength := auth.ValidatePasswordStrength(in.NewPassword); !strength.Valid {
		return apperrors.NewValidationError("validation failed", map[string]any{
			"new_password": strength.Errors,
		})
	}

	sales, err := s.sales.GetByID(ctx, salesID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewDomainError("ACCOUNT_NOT_FOUND", "account not found", http.StatusUnauthorized, nil)
		}
		return apperrors.NewInternalError(err)
	}

	ok, err := auth.VerifyPassword(in.CurrentPassword, sales.PasswordHash)
	if err != nil && !errors.Is(err, auth.ErrPasswordEmpty) {
		return apperrors.NewInternalError(err)
	}
	if !ok {
		return apperrors.NewValidationError("validation failed", map[string]any{
			"current_password": []string{"current password is incorrect"},
		})
	}

	previous, err := s.history.ListRecent(ctx, salesID, s.historyDepth)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("load password history: %w", err))
	}
	if auth.IsPasswordReused(in.NewPassword, append([]string{sales.PasswordHash}, previous...)) {
		return apperrors.NewValidationError("validation failed", map[string]any{
			"new_password": []string{"password was used recently"},
		})
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.sales.UpdatePassword(ctx, salesID, hash); err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.history.Add(ctx, salesID, sales.PasswordHash); err != nil {
		s.logger.Warn("record password history", zap.Int64("sales_id", salesID), zap.Error(err))
	}

	s.publish(ctx, events.New(events.EventPasswordChanged, &salesID, ip, nil))
	return nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

// tokenError maps token failures onto API errors.
func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return apperrors.NewTokenExpired(err)
	case errors.Is(err, auth.ErrAccountNotFound):
		return apperrors.NewDomainError("ACCOUNT_NOT_FOUND", "account not found", http.StatusUnauthorized, nil)
	case errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenWrongType),
		errors.Is(err, auth.ErrTokenVerification):
		return apperrors.NewTokenInvalid(err)
	default:
		return apperrors.NewInternalError(err)
	}
}
