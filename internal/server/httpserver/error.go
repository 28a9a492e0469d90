package httpserver

import (
	"context"
	"errors"
	"net"
	"strconv"

	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"compstats.gg/backend/internal/pkg/cserr"
)

func handleCustomError(ctx *fiber.Ctx, e *cserr.CompsError) error {
	log.Warn().
		Err(e).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Msg(e.Message)

	body := fiber.Map{
		"code":    e.ErrorCode,
		"message": e.Message,
	}

	if e.Extras != nil && len(*e.Extras) > 0 {
		for k, v := range *e.Extras {
			body[k] = v
		}
	}

	return ctx.Status(e.StatusCode).JSON(body)
}

// ErrorHandler renders every error as the JSON shape the dashboard's failure
// banners consume.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	if e, ok := err.(*cserr.CompsError); ok {
		return handleCustomError(ctx, e)
	}

	if isUpstreamTimeout(err) {
		re := *cserr.ErrUpstreamTimeout
		return handleCustomError(ctx, &re)
	}

	// copy, never mutate the shared error value
	re := *cserr.ErrInternalError

	if e, ok := err.(*fiber.Error); ok {
		re.StatusCode = e.Code
		re.ErrorCode = "UNKNOWN_ERROR"
		re.Message = e.Message
	}

	log.Error().
		Stack().
		Err(err).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Int("status", re.StatusCode).
		Msg("Internal Server Error")

	if hub := fibersentry.GetHubFromContext(ctx); hub != nil {
		hub.Scope().SetTag("status", strconv.Itoa(re.StatusCode))
		hub.CaptureException(err)
	}

	return handleCustomError(ctx, &re)
}

// isUpstreamTimeout reports whether err is a deadline or network timeout from
// a dependency, which the dashboard banners separately from server faults.
func isUpstreamTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
