// Package seed creates sales accounts from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/daily-report-service/internal/auth"
	"github.com/spec-kit/daily-report-service/internal/domain"
	"github.com/spec-kit/daily-report-service/internal/repository"
)

// Account is one entry of the accounts file.
type Account struct {
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	Department string `yaml:"department"`
	Position   string `yaml:"position"`
}

type accountsFile struct {
	Accounts []Account `yaml:"accounts"`
}

// Result counts what a seed run did.
type Result struct {
	Created int
	Skipped int
}

// LoadFile reads an accounts file.
func LoadFile(path string) ([]Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f accountsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f.Accounts, nil
}

// Accounts creates every account whose email is not yet registered.
// Existing accounts are left untouched.
func Accounts(ctx context.Context, repo repository.SalesRepository, accounts []Account, logger *zap.Logger) (Result, error) {
	var res Result
	for _, a := range accounts {
		if a.Email == "" || a.Password == "" {
			res.Skipped++
			continue
		}
		if _, err := repo.GetByEmail(ctx, a.Email); err == nil {
			res.Skipped++
			continue
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return res, err
		}

		role, err := domain.RoleForPosition(a.Position)
		if err != nil {
			return res, fmt.Errorf("account %s: %w", a.Email, err)
		}
		hash, err := auth.HashPassword(a.Password)
		if err != nil {
			return res, fmt.Errorf("account %s: %w", a.Email, err)
		}

		sales := &domain.Sales{
			Name:         a.Name,
			Email:        a.Email,
			PasswordHash: hash,
			Department:   a.Department,
			Position:     a.Position,
			Role:         role,
		}
		if err := repo.Create(ctx, sales); err != nil {
			return res, fmt.Errorf("create %s: %w", a.Email, err)
		}
		logger.Info("seeded account", zap.String("email", a.Email), zap.String("role", string(role)))
		res.Created++
	}
	return res, nil
}

// FromFile loads path and seeds its accounts.
func FromFile(ctx context.Context, repo repository.SalesRepository, path string, logger *zap.Logger) (Result, error) {
	accounts, err := LoadFile(path)
	if err != nil {
		return Result{}, err
	}
	return Accounts(ctx, repo, accounts, logger)
}
