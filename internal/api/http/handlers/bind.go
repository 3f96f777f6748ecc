package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/daily-report-service/internal/validation"
	apperrors "github.com/spec-kit/daily-report-service/pkg/util/errorutil"
)

// bind validates the raw body against schema, then decodes it into dst.
func bind(c *fiber.Ctx, v *validation.Validator, schema validation.Schema, dst any) error {
	body := c.Body()
	if err := v.Validate(schema, body); err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			return apperrors.NewValidationError("validation failed", verr.Details())
		}
		return apperrors.NewInternalError(err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}
