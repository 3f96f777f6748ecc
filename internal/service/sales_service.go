package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/daily-report-service/internal/auth"
	"github.com/spec-kit/daily-report-service/internal/domain"
	"github.com/spec-kit/daily-report-service/internal/events"
	"github.com/spec-kit/daily-report-service/internal/repository"
	apperrors "github.com/spec-kit/daily-report-service/pkg/util/errorutil"
)

// CreateSalesInput carries a new account request.
type CreateSalesInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
	Department      string
	Position        string
}

// UpdateSalesInput carries an account update. Nil fields are left unchanged.
type UpdateSalesInput struct {
	Name       *string
	Email      *string
	Department *string
	Position   *string
}

// SalesService manages sales accounts.
type SalesService struct {
	sales      repository.SalesRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSalesService creates the service.
func NewSalesService(sales repository.SalesRepository, dispatcher events.Dispatcher, logger *zap.Logger) *SalesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesService{sales: sales, dispatcher: dispatcher, logger: logger}
}

// Create stores a new account. The role is derived from the position.
func (s *SalesService) Create(ctx context.Context, creator *auth.Identity, in CreateSalesInput, ip string) (*domain.Sales, error) {
	if in.Password != in.PasswordConfirm {
		return nil, apperrors.NewValidationError("validation failed", map[string]any{
			"password_confirm": []string{"passwords do not match"},
		})
	}
	if strength := auth.ValidatePasswordStrength(in.Password); !strength.Valid {
		return nil, apperrors.NewValidationError("validation failed", map[string]any{
			"password": strength.Errors,
		})
	}
	role, err := domain.RoleForPosition(in.Position)
	if err != nil {
		return nil, apperrors.NewValidationError("validation failed", map[string]any{
			"position": []string{err.Error()},
		})
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	sales := &domain.Sales{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Department:   in.Department,
		Position:     in.Position,
		Role:         role,
	}
	if err := s.sales.Create(ctx, sales); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": sales.Email})
		}
		return nil, apperrors.NewInternalError(err)
	}

	var createdBy int64
	if creator != nil {
		createdBy = creator.SalesID
	}
	s.publish(ctx, events.New(events.EventSalesCreated, &sales.ID, ip, events.SalesCreatedPayload{
		CreatedBy: createdBy,
		Email:     sales.Email,
		Role:      string(sales.Role),
	}))
	return sales, nil
}

// Update applies the non-nil fields. A position change re-derives the role.
func (s *SalesService) Update(ctx context.Context, id int64, in UpdateSalesInput) (*domain.Sales, error) {
	sales, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		sales.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		sales.Email = strings.TrimSpace(*in.Email)
	}
	if in.Department != nil {
		sales.Department = *in.Department
	}
	if in.Position != nil {
		role, err := domain.RoleForPosition(*in.Position)
		if err != nil {
			return nil, apperrors.NewValidationError("validation failed", map[string]any{
				"position": []string{err.Error()},
			})
		}
		sales.Position = *in.Position
		sales.Role = role
	}

	if err := s.sales.Update(ctx, sales); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": sales.Email})
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewNotFound("sales", map[string]any{"id": id})
		default:
			return nil, apperrors.NewInternalError(err)
		}
	}
	return sales, nil
}

// Get returns one account.
func (s *SalesService) Get(ctx context.Context, id int64) (*domain.Sales, error) {
	sales, err := s.sales.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("sales", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return sales, nil
}

// List returns every account ordered by id.
func (s *SalesService) List(ctx context.Context) ([]domain.Sales, error) {
	list, err := s.sales.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return list, nil
}

func (s *SalesService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
