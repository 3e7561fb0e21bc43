// handlers/images.go - Rendered image endpoints
package handlers

import (
	"litdisplay/services"
	"litdisplay/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ImageHandler serves rendered liturgical images for eInk clients.
type ImageHandler struct {
	Images *services.ImageService
	Log    *zap.Logger
}

func NewImageHandler(images *services.ImageService, log *zap.Logger) *ImageHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ImageHandler{Images: images, Log: log}
}

// GetToday serves today's image: /api/image/today.:ext
func (h *ImageHandler) GetToday(c *fiber.Ctx) error {
	return h.serve(c, utils.Today(), c.Params("ext"))
}

// GetByDate serves a specific date's image: /api/image/:date.:ext
func (h *ImageHandler) GetByDate(c *fiber.Ctx) error {
	date := c.Params("date")
	if !utils.ValidDate(date) {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid date, expected YYYY-MM-DD",
		})
	}
	return h.serve(c, date, c.Params("ext"))
}

func (h *ImageHandler) serve(c *fiber.Ctx, date, ext string) error {
	if ext != "png" && ext != "bmp" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Unsupported image format, use png or bmp",
		})
	}

	path, err := h.Images.Generate(c.UserContext(), date, ext)
	if err != nil {
		h.Log.Error("image render failed", zap.String("date", date), zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to render image",
		})
	}
	return c.SendFile(path)
}
