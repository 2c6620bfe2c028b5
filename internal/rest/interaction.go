package rest

import (
	"context"
	"errors"
	"net/http"

	"okazjeplus/business/interaction"
	"okazjeplus/domain"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	InteractionHandler struct {
		interactionService InteractionService
	}

	InteractionService interface {
		Track(ctx context.Context, input interaction.TrackInput) (domain.Interaction, error)
	}
)

func NewInteractionHandler(svc InteractionService) *InteractionHandler {
	return &InteractionHandler{
		interactionService: svc,
	}
}

// POST /api/v1/interactions
func (h *InteractionHandler) Track(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req interaction.TrackInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	req.UserID = userID

	in, err := h.interactionService.Track(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInteraction) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to track interaction"})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(in))
}
