package v1

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"compstats.gg/backend/internal/model/types"
	"compstats.gg/backend/internal/pkg/cserr"
	"compstats.gg/backend/internal/server/svr"
	"compstats.gg/backend/internal/service"
	"compstats.gg/backend/internal/util/rekuest"
)

type Match struct {
	fx.In

	MatchIngestService *service.MatchIngest
}

func RegisterMatch(v1 *svr.V1, c Match) {
	v1.Post("/matches", c.ReportMatch)
}

// ReportMatch validates a reported match and enqueues it for asynchronous
// persistence. The response carries the task id for tracing.
func (c *Match) ReportMatch(ctx *fiber.Ctx) error {
	var task types.MatchTask
	if err := json.Unmarshal(ctx.Body(), &task); err != nil {
		return cserr.ErrInvalidReq.Msg("invalid request body: %s", err)
	}
	if err := rekuest.ValidStruct(ctx, task); err != nil {
		return err
	}
	if err := rekuest.ValidRegion(ctx, task.Region); err != nil {
		return err
	}

	taskID, err := c.MatchIngestService.Publish(ctx.UserContext(), &task)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"taskId": taskID,
	})
}
