package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/daily-report-service/internal/api/dto"
	"github.com/spec-kit/daily-report-service/internal/auth"
	"github.com/spec-kit/daily-report-service/internal/service"
	"github.com/spec-kit/daily-report-service/internal/validation"
	apperrors "github.com/spec-kit/daily-report-service/pkg/util/errorutil"
)

// AuthHandler exposes login, refresh, logout and session endpoints.
type AuthHandler struct {
	auth         *service.AuthService
	sessions     *auth.SessionResolver
	validator    *validation.Validator
	cookieSecure bool
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, sessions *auth.SessionResolver, validator *validation.Validator, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions, validator: validator, cookieSecure: cookieSecure}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, h.validator, validation.SchemaLogin, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password, c.IP())
	if err != nil {
		return err
	}

	h.setTokenCookie(c, result.Pair)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewSalesResponse(result.Sales),
			"auth": tokenResponse(result.Pair),
		},
	})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := bind(c, h.validator, validation.SchemaRefresh, &req); err != nil {
		return err
	}

	pair, err := h.auth.Refresh(c.UserContext(), req.RefreshToken, c.IP())
	if err != nil {
		return err
	}

	h.setTokenCookie(c, pair)
	return c.JSON(fiber.Map{"data": tokenResponse(pair)})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	identity, _ := h.sessions.CurrentUser(c)
	h.auth.Logout(c.UserContext(), identity, c.IP())

	c.Cookie(&fiber.Cookie{
		Name:     auth.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(auth.ErrUnauthorized.Error())
	}
	return c.JSON(fiber.Map{"data": meResponse(identity)})
}

// ChangePassword handles POST /api/auth/password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(auth.ErrUnauthorized.Error())
	}

	var req dto.ChangePasswordRequest
	if err := bind(c, h.validator, validation.SchemaPasswordChange, &req); err != nil {
		return err
	}

	if err := h.auth.ChangePassword(c.UserContext(), identity.SalesID, service.ChangePasswordInput{
		CurrentPassword:    req.CurrentPassword,
		NewPassword:        req.NewPassword,
		NewPasswordConfirm: req.NewPasswordConfirm,
	}, c.IP()); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, pair *auth.TokenPair) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.TokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(pair.ExpiresIn),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func tokenResponse(pair *auth.TokenPair) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}
}

func meResponse(identity *auth.Identity) dto.MeResponse {
	return dto.MeResponse{
		SalesID:    identity.SalesID,
		Email:      identity.Email,
		Department: identity.Department,
		Position:   identity.Position,
		Role:       string(identity.Role),
		IsAdmin:    auth.IsAdmin(identity),
		IsManager:  auth.IsManager(identity),
		ExpiresAt:  identity.ExpiresAt,
	}
}
