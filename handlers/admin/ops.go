// handlers/admin/ops.go - Operator cache and display controls
package admin

import (
	"litdisplay/services"
	"litdisplay/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OpsHandler exposes refresh, cache-clear, and display-push operations.
type OpsHandler struct {
	Days    *services.DayService
	Images  *services.ImageService
	Display *services.DisplayService
	Log     *zap.Logger
}

func NewOpsHandler(days *services.DayService, images *services.ImageService, display *services.DisplayService, log *zap.Logger) *OpsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OpsHandler{Days: days, Images: images, Display: display, Log: log}
}

// Refresh rebuilds the artifact for :date (or today when omitted).
func (h *OpsHandler) Refresh(c *fiber.Ctx) error {
	date := c.Params("date")
	if date == "" {
		date = utils.Today()
	}
	if !utils.ValidDate(date) {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	if err := h.Days.InvalidateDay(date); err != nil {
		h.Log.Error("invalidate day", zap.String("date", date), zap.Error(err))
	}
	day, err := h.Days.Refresh(c.UserContext(), date)
	if err != nil {
		h.Log.Error("refresh day", zap.String("date", date), zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to refresh liturgical day",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"date":    day.Date,
		"name":    day.Name,
	})
}

// ClearCache removes rendered images, optionally one format via ?format=.
func (h *OpsHandler) ClearCache(c *fiber.Ctx) error {
	format := c.Query("format")
	if format != "" && format != "png" && format != "bmp" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Unsupported image format, use png or bmp",
		})
	}

	removed, err := h.Images.ClearCache(format)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to clear image cache",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"removed": removed,
	})
}

// PushDisplay renders today's image and draws it on the attached panel.
func (h *OpsHandler) PushDisplay(c *fiber.Ctx) error {
	date := utils.Today()
	path, err := h.Images.Generate(c.UserContext(), date, "png")
	if err != nil {
		h.Log.Error("render for display push", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to render image",
		})
	}

	if err := h.Display.Show(c.UserContext(), path); err != nil {
		h.Log.Error("display push", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to update display",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"date":    date,
		"image":   path,
	})
}
