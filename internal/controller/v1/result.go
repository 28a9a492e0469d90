package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/server/svr"
	"compstats.gg/backend/internal/service"
	"compstats.gg/backend/internal/util/rekuest"
)

type Result struct {
	fx.In

	StatsService *service.Stats
}

func RegisterResult(v1 *svr.V1, c Result) {
	v1.Get("/result/stats", c.GetStats)
	v1.Get("/result/entities", c.GetEntities)
	v1.Get("/result/highlights", c.GetHighlights)
}

func (c *Result) resolveRegion(ctx *fiber.Ctx) (string, error) {
	region := ctx.Query("region", constant.GlobalRegion)
	if err := rekuest.ValidRegionOrGlobal(ctx, region); err != nil {
		return "", err
	}
	return region, nil
}

// GetStats returns the full aggregate dataset for one region, or the merged
// global view when no region is given.
func (c *Result) GetStats(ctx *fiber.Ctx) error {
	region, err := c.resolveRegion(ctx)
	if err != nil {
		return err
	}

	result, err := c.StatsService.GetStats(ctx.UserContext(), region)
	if err != nil {
		return err
	}
	return ctx.JSON(result)
}

type entitiesResponse struct {
	Region  string                   `json:"region"`
	Summary model.AggregateSummary   `json:"summary"`
	Units   []*model.UnitAggregate   `json:"units"`
	Traits  []*model.TraitAggregate  `json:"traits"`
	Items   []*model.ItemAggregate   `json:"items"`
}

// GetEntities returns the unit/trait/item slices without the composition
// groups, for entity-centric pages that do not need the heavier payload.
func (c *Result) GetEntities(ctx *fiber.Ctx) error {
	region, err := c.resolveRegion(ctx)
	if err != nil {
		return err
	}

	result, err := c.StatsService.GetStats(ctx.UserContext(), region)
	if err != nil {
		return err
	}
	return ctx.JSON(entitiesResponse{
		Region:  result.Region,
		Summary: result.Summary,
		Units:   result.Units,
		Traits:  result.Traits,
		Items:   result.Items,
	})
}

func (c *Result) GetHighlights(ctx *fiber.Ctx) error {
	region, err := c.resolveRegion(ctx)
	if err != nil {
		return err
	}

	groups, err := c.StatsService.GetHighlights(ctx.UserContext(), region)
	if err != nil {
		return err
	}
	return ctx.JSON(groups)
}
