package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"compstats.gg/backend/internal/constant"
)

func Logger() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		requestID, _ := ctx.Locals(constant.ContextKeyRequestID).(string)
		log.Info().
			Str("component", "httpreq").
			Str("request_id", requestID).
			Str("ip", ctx.IP()).
			Str("method", ctx.Method()).
			Str("url", ctx.OriginalURL()).
			Str("user_agent", ctx.Get(fiber.HeaderUserAgent)).
			Int("status", ctx.Response().StatusCode()).
			Int("size", len(ctx.Response().Body())).
			Dur("duration", time.Since(start)).
			Msg("received request")

		return err
	}
}
