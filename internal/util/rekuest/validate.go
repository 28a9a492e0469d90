package rekuest

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/pkg/cserr"
)

var Validate = validator.New()

type ErrorResponse struct {
	Field     string `json:"field,omitempty"`
	Violation string `json:"violation"`
	Message   string `json:"message"`
}

// ValidStruct validates s against its validate tags and reports violations
// as an invalid-request error.
func ValidStruct(ctx *fiber.Ctx, s any) error {
	if err := Validate.StructCtx(ctx.UserContext(), s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return cserr.ErrInvalidReq
		}
		violations := make([]*ErrorResponse, 0, len(ve))
		for _, fe := range ve {
			violations = append(violations, &ErrorResponse{
				Field:     fe.Field(),
				Violation: fe.Tag(),
				Message:   fe.Error(),
			})
		}
		return cserr.NewInvalidViolations(violations)
	}
	return nil
}

// ValidRegion rejects requests for regions outside the configured set.
func ValidRegion(ctx *fiber.Ctx, region string) error {
	if !constant.IsValidRegion(region) {
		return cserr.ErrInvalidReq.Msg("region %s is not a valid region", region)
	}
	return nil
}

// ValidRegionOrGlobal additionally accepts the merged pseudo-region, used by
// the read endpoints.
func ValidRegionOrGlobal(ctx *fiber.Ctx, region string) error {
	if region == constant.GlobalRegion {
		return nil
	}
	return ValidRegion(ctx, region)
}
