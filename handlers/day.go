// handlers/day.go - Day and reading endpoints
package handlers

import (
	"encoding/json"

	"litdisplay/scripture"
	"litdisplay/services"
	"litdisplay/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DayHandler serves the assembled liturgical day and ad-hoc reading
// resolution.
type DayHandler struct {
	Days     *services.DayService
	Resolver *scripture.Resolver
	Log      *zap.Logger
}

func NewDayHandler(days *services.DayService, resolver *scripture.Resolver, log *zap.Logger) *DayHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DayHandler{Days: days, Resolver: resolver, Log: log}
}

// GetToday returns today's liturgical day artifact.
func (h *DayHandler) GetToday(c *fiber.Ctx) error {
	return h.respondDay(c, utils.Today())
}

// GetByDate returns the artifact for a YYYY-MM-DD date.
func (h *DayHandler) GetByDate(c *fiber.Ctx) error {
	date := c.Params("date")
	if !utils.ValidDate(date) {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid date, expected YYYY-MM-DD",
		})
	}
	return h.respondDay(c, date)
}

// ResolveReference resolves a single reference string passed as ?ref=.
func (h *DayHandler) ResolveReference(c *fiber.Ctx) error {
	ref := c.Query("ref")
	if ref == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Missing ref query parameter",
		})
	}

	reading := h.Resolver.Resolve(c.UserContext(), ref)
	return c.JSON(fiber.Map{
		"success": true,
		"reading": reading,
	})
}

func (h *DayHandler) respondDay(c *fiber.Ctx, date string) error {
	day, err := h.Days.GetDay(c.UserContext(), date)
	if err != nil {
		h.Log.Error("assemble day failed", zap.String("date", date), zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to assemble liturgical day",
		})
	}

	readings := json.RawMessage(day.Readings)
	if len(readings) == 0 {
		readings = json.RawMessage("[]")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"day": fiber.Map{
			"date":              day.Date,
			"name":              day.Name,
			"season":            day.Season,
			"colour":            day.Colour,
			"week":              day.Week,
			"wikipedia_url":     day.WikipediaURL,
			"wikipedia_summary": day.WikipediaSummary,
			"reflection":        day.Reflection,
			"readings":          readings,
			"updated_at":        day.UpdatedAt,
		},
	})
}
