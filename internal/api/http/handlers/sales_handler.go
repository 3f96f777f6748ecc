package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/daily-report-service/internal/api/dto"
	"github.com/spec-kit/daily-report-service/internal/auth"
	"github.com/spec-kit/daily-report-service/internal/service"
	"github.com/spec-kit/daily-report-service/internal/validation"
	apperrors "github.com/spec-kit/daily-report-service/pkg/util/errorutil"
)

// SalesHandler exposes account management for administrators.
type SalesHandler struct {
	sales     *service.SalesService
	validator *validation.Validator
}

// NewSalesHandler constructs handler.
func NewSalesHandler(salesService *service.SalesService, validator *validation.Validator) *SalesHandler {
	return &SalesHandler{sales: salesService, validator: validator}
}

// Create handles POST /api/sales.
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSalesRequest
	if err := bind(c, h.validator, validation.SchemaSalesCreate, &req); err != nil {
		return err
	}

	creator, _ := auth.IdentityFromContext(c)
	sales, err := h.sales.Create(c.UserContext(), creator, service.CreateSalesInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Department:      req.Department,
		Position:        req.Position,
	}, c.IP())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSalesResponse(sales)})
}

// List handles GET /api/sales.
func (h *SalesHandler) List(c *fiber.Ctx) error {
	list, err := h.sales.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.SalesResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.NewSalesResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /api/sales/:id.
func (h *SalesHandler) Get(c *fiber.Ctx) error {
	id, err := salesID(c)
	if err != nil {
		return err
	}
	sales, err := h.sales.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSalesResponse(sales)})
}

// Update handles PATCH /api/sales/:id.
func (h *SalesHandler) Update(c *fiber.Ctx) error {
	id, err := salesID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateSalesRequest
	if err := bind(c, h.validator, validation.SchemaSalesUpdate, &req); err != nil {
		return err
	}

	sales, err := h.sales.Update(c.UserContext(), id, service.UpdateSalesInput{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Position:   req.Position,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSalesResponse(sales)})
}

func salesID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": c.Params("id")})
	}
	return int64(id), nil
}
