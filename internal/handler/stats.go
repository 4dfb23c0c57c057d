package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Huudle/flow-fusion/internal/service"
)

type StatsHandler struct {
	svc *service.ChannelService
}

func NewStatsHandler(svc *service.ChannelService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// GetStats handles GET /api/stats
func (h *StatsHandler) GetStats(c fiber.Ctx) error {
	stats, err := h.svc.GetStats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to fetch statistics",
			},
		})
	}

	return c.JSON(stats)
}
