package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Huudle/flow-fusion/internal/middleware"
	"github.com/Huudle/flow-fusion/internal/model"
	"github.com/Huudle/flow-fusion/internal/service"
)

type ProfileHandler struct {
	svc *service.ChannelService
}

func NewProfileHandler(svc *service.ChannelService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// ListChannels handles GET /api/profiles/:profileId/channels
func (h *ProfileHandler) ListChannels(c fiber.Ctx) error {
	profileID, errMsg := middleware.ValidateProfileID(c.Params("profileId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	channels, err := h.svc.ListForProfile(c.Context(), profileID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list channels")
	}
	if channels == nil {
		channels = []model.ChannelResponse{}
	}

	return c.JSON(fiber.Map{"channels": channels})
}

// LinkChannel handles POST /api/profiles/:profileId/channels
func (h *ProfileHandler) LinkChannel(c fiber.Ctx) error {
	profileID, errMsg := middleware.ValidateProfileID(c.Params("profileId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.LinkChannelRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	handle, errMsg := middleware.ValidateHandle(req.ChannelName)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	ch, err := h.svc.Link(c.Context(), profileID, handle)
	if err != nil {
		middleware.Logger.Error().Err(err).Str("profile_id", profileID).Msg("link channel failed")
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "RESOLVE_FAILED", "Could not resolve channel")
	}

	return c.Status(fiber.StatusCreated).JSON(ch)
}

// UnlinkChannel handles DELETE /api/profiles/:profileId/channels/:channelId
func (h *ProfileHandler) UnlinkChannel(c fiber.Ctx) error {
	profileID, errMsg := middleware.ValidateProfileID(c.Params("profileId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	removed, err := h.svc.Unlink(c.Context(), profileID, channelID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to unlink channel")
	}
	if !removed {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Channel not linked to profile")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
