package controller

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"gopkg.in/guregu/null.v3"

	"compstats.gg/backend/internal/app/appconfig"
	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/model/cache"
	"compstats.gg/backend/internal/model/types"
	"compstats.gg/backend/internal/pkg/cserr"
	"compstats.gg/backend/internal/server/svr"
	"compstats.gg/backend/internal/service"
	"compstats.gg/backend/internal/util/rekuest"
)

type AdminController struct {
	fx.In

	Config         *appconfig.Config
	StatsService   *service.Stats
	ExtractService *service.Extract
}

func RegisterAdminController(admin *svr.Admin, c AdminController) {
	admin.Use(c.RequireAdminKey)

	admin.Post("/refresh/:region", c.RefreshRegion)
	admin.Post("/purge", c.PurgeCache)
	admin.Post("/extract/preview", c.PreviewExtraction)
}

func (c *AdminController) RequireAdminKey(ctx *fiber.Ctx) error {
	if c.Config.AdminKey == "" || ctx.Get(constant.AdminKeyHeader) != c.Config.AdminKey {
		return cserr.New(fiber.StatusUnauthorized, "UNAUTHORIZED", "admin key missing or invalid")
	}
	return ctx.Next()
}

// RefreshRegion forces a full recompute of one region outside the worker
// cadence.
func (c *AdminController) RefreshRegion(ctx *fiber.Ctx) error {
	region := ctx.Params("region")
	if err := rekuest.ValidRegion(ctx, region); err != nil {
		return err
	}

	if err := c.StatsService.RefreshRegion(ctx.UserContext(), region); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"status": "refreshed",
		"region": region,
	})
}

type purgeCacheRequest struct {
	Name string      `json:"name" validate:"required"`
	Key  null.String `json:"key"`
}

func (c *AdminController) PurgeCache(ctx *fiber.Ctx) error {
	var request purgeCacheRequest
	if err := json.Unmarshal(ctx.Body(), &request); err != nil {
		return cserr.ErrInvalidReq.Msg("invalid request body: %s", err)
	}
	if err := rekuest.ValidStruct(ctx, request); err != nil {
		return err
	}

	if err := cache.Delete(request.Name, request.Key); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"status": "purged",
	})
}

// PreviewExtraction runs the composition extractor over a posted match
// without persisting anything, for debugging reference-data changes.
func (c *AdminController) PreviewExtraction(ctx *fiber.Ctx) error {
	var task types.MatchTask
	if err := json.Unmarshal(ctx.Body(), &task); err != nil {
		return cserr.ErrInvalidReq.Msg("invalid request body: %s", err)
	}
	if err := rekuest.ValidStruct(ctx, task); err != nil {
		return err
	}

	comps, err := c.ExtractService.ExtractMatch(ctx.UserContext(), &model.Match{
		MatchID:      task.MatchID,
		Region:       task.Region,
		GameVersion:  task.GameVersion,
		Count:        task.Count,
		Participants: task.Participants,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(comps)
}
