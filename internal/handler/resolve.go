package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Huudle/flow-fusion/internal/model"
	"github.com/Huudle/flow-fusion/internal/resolver"
)

type ResolveHandler struct {
	resolver *resolver.Resolver
}

func NewResolveHandler(res *resolver.Resolver) *ResolveHandler {
	return &ResolveHandler{resolver: res}
}

// Resolve handles GET /api/resolve?channelName=<handle>
//
// Resolution failures never surface as transport errors: the response is
// always a JSON body with a success flag, at the default HTTP status.
func (h *ResolveHandler) Resolve(c fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("channelName"))
	if name == "" {
		return c.JSON(fiber.Map{
			"success": false,
			"error":   "Channel name is required",
		})
	}

	ch, err := h.resolver.Resolve(c.Context(), name)
	if err != nil {
		return c.JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(model.ResolveResponse{
		Success:         true,
		ResolvedChannel: *ch,
	})
}
