package dto

import (
	"time"

	"github.com/spec-kit/daily-report-service/internal/domain"
)

// CreateSalesRequest payload for a new sales account.
type CreateSalesRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Department      string `json:"department"`
	Position        string `json:"position"`
}

// UpdateSalesRequest payload for a partial account update.
type UpdateSalesRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
}

// SalesResponse is the public view of an account.
type SalesResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewSalesResponse strips the password hash.
func NewSalesResponse(s *domain.Sales) SalesResponse {
	return SalesResponse{
		ID:         s.ID,
		Name:       s.Name,
		Email:      s.Email,
		Department: s.Department,
		Position:   s.Position,
		Role:       string(s.Role),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
