package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/daily-report-service/internal/domain"
)

const (
	defaultAccessLifetime  = "24h"
	defaultRefreshLifetime = "7d"
)

// TokenType discriminates access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// AccessClaims are the account attributes embedded in an access token.
type AccessClaims struct {
	SalesID    int64       `json:"sales_id"`
	Email      string      `json:"email"`
	Department string      `json:"department"`
	Position   string      `json:"position"`
	Role       domain.Role `json:"role"`
}

// ClaimsFromSales projects the current state of an account into token claims.
func ClaimsFromSales(s *domain.Sales) AccessClaims {
	return AccessClaims{
		SalesID:    s.ID,
		Email:      s.Email,
		Department: s.Department,
		Position:   s.Position,
		Role:       s.Role,
	}
}

// Identity is a verified access token payload.
type Identity struct {
	AccessClaims
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshSubject is the minimal data carried by a refresh token.
type RefreshSubject struct {
	SalesID int64  `json:"sales_id"`
	Email   string `json:"email"`
}

// RefreshIdentity is a verified refresh token payload.
type RefreshIdentity struct {
	RefreshSubject
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is issued at login and on every refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the access token lifetime in whole seconds.
	ExpiresIn int64
}

// AccountLookup fetches the current claims for an account. found is false when
// the account no longer exists.
type AccountLookup func(ctx context.Context, salesID int64) (claims AccessClaims, found bool, err error)

type accessTokenClaims struct {
	AccessClaims
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type refreshTokenClaims struct {
	RefreshSubject
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenConfig is the read-only configuration injected into a TokenService.
type TokenConfig struct {
	Secret          string
	AccessLifetime  string
	RefreshLifetime string
	Issuer          string
}

// TokenService handles issuing and validating JWT tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	now        func() time.Time
}

// NewTokenService builds a new service. A missing secret or a bad lifetime is a
// configuration error.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.AccessLifetime == "" {
		cfg.AccessLifetime = defaultAccessLifetime
	}
	if cfg.RefreshLifetime == "" {
		cfg.RefreshLifetime = defaultRefreshLifetime
	}

	accessTTL, err := ParseLifetime(cfg.AccessLifetime)
	if err != nil {
		return nil, fmt.Errorf("access token lifetime: %w", err)
	}
	refreshTTL, err := ParseLifetime(cfg.RefreshLifetime)
	if err != nil {
		return nil, fmt.Errorf("refresh token lifetime: %w", err)
	}

	return &TokenService{
		secret:     []byte(cfg.Secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}, nil
}

// AccessLifetime returns the configured access token lifetime.
func (s *TokenService) AccessLifetime() time.Duration {
	return s.accessTTL
}

// SignAccessToken signs an access token. A non-positive lifetime selects the configured default.
func (s *TokenService) SignAccessToken(claims AccessClaims, lifetime time.Duration) (string, error) {
	if lifetime <= 0 {
		lifetime = s.accessTTL
	}
	return s.sign(&accessTokenClaims{
		AccessClaims:     claims,
		TokenType:        TokenTypeAccess,
		RegisteredClaims: s.registered(claims.SalesID, lifetime),
	})
}

// SignRefreshToken signs a refresh token. A non-positive lifetime selects the configured default.
func (s *TokenService) SignRefreshToken(subject RefreshSubject, lifetime time.Duration) (string, error) {
	if lifetime <= 0 {
		lifetime = s.refreshTTL
	}
	return s.sign(&refreshTokenClaims{
		RefreshSubject:   subject,
		TokenType:        TokenTypeRefresh,
		RegisteredClaims: s.registered(subject.SalesID, lifetime),
	})
}

// VerifyAccessToken validates an access token and returns its identity.
func (s *TokenService) VerifyAccessToken(tokenStr string) (*Identity, error) {
	var claims accessTokenClaims
	if err := s.parse(tokenStr, &claims); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, fmt.Errorf("%w: expected %s token", ErrTokenWrongType, TokenTypeAccess)
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrTokenInvalid, claims.Role)
	}

	return &Identity{
		AccessClaims: claims.AccessClaims,
		IssuedAt:     numericTime(claims.IssuedAt),
		ExpiresAt:    numericTime(claims.ExpiresAt),
	}, nil
}

// VerifyRefreshToken validates a refresh token and returns its subject.
func (s *TokenService) VerifyRefreshToken(tokenStr string) (*RefreshIdentity, error) {
	var claims refreshTokenClaims
	if err := s.parse(tokenStr, &claims); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, fmt.Errorf("%w: expected %s token", ErrTokenWrongType, TokenTypeRefresh)
	}

	return &RefreshIdentity{
		RefreshSubject: claims.RefreshSubject,
		IssuedAt:       numericTime(claims.IssuedAt),
		ExpiresAt:      numericTime(claims.ExpiresAt),
	}, nil
}

// GenerateTokenPair signs an access and a refresh token for the same account.
func (s *TokenService) GenerateTokenPair(claims AccessClaims) (*TokenPair, error) {
	var (
		g    errgroup.Group
		pair = &TokenPair{ExpiresIn: int64(s.accessTTL / time.Second)}
	)
	g.Go(func() error {
		token, err := s.SignAccessToken(claims, s.accessTTL)
		if err != nil {
			return fmt.Errorf("sign access token: %w", err)
		}
		pair.AccessToken = token
		return nil
	})
	g.Go(func() error {
		token, err := s.SignRefreshToken(RefreshSubject{SalesID: claims.SalesID, Email: claims.Email}, s.refreshTTL)
		if err != nil {
			return fmt.Errorf("sign refresh token: %w", err)
		}
		pair.RefreshToken = token
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pair, nil
}

// RefreshTokenPair exchanges a refresh token for a new pair built from the
// account's current claims.
func (s *TokenService) RefreshTokenPair(ctx context.Context, refreshToken string, lookup AccountLookup) (*TokenPair, error) {
	subject, err := s.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	claims, found, err := lookup(ctx, subject.SalesID)
	if err != nil {
		return nil, fmt.Errorf("lookup account %d: %w", subject.SalesID, err)
	}
	if !found {
		return nil, ErrAccountNotFound
	}
	return s.GenerateTokenPair(claims)
}

func (s *TokenService) registered(salesID int64, lifetime time.Duration) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   strconv.FormatInt(salesID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
	}
}

func (s *TokenService) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) parse(tokenStr string, claims jwt.Claims) error {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	parsed, err := jwt.NewParser(opts...).ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return classify(err)
	}
	if !parsed.Valid {
		return ErrTokenInvalid
	}
	return nil
}

// classify maps jwt library failures onto the package taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenVerification, err)
	}
}

func numericTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
