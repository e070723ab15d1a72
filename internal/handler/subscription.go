package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"learnplay-commerce/internal/apperr"
	"learnplay-commerce/internal/dto"
	"learnplay-commerce/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

func (h *SubscriptionHandler) Manage(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ManageSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	switch req.Action {
	case "create":
		sub, err := h.subscriptionService.Create(ctx, req.UserID, req.PlanID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.SubscriptionResponse{
			Success:   true,
			ID:        sub.ID,
			PlanID:    sub.PlanID,
			StartDate: sub.StartDate.Format(time.RFC3339),
			EndDate:   sub.EndDate.Format(time.RFC3339),
			Status:    sub.Status,
		})

	case "cancel":
		if err := h.subscriptionService.Cancel(ctx, req.UserID); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.SubscriptionResponse{Success: true})

	case "update":
		if err := h.subscriptionService.UpdatePlan(ctx, req.UserID, req.PlanID); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.SubscriptionResponse{Success: true, PlanID: req.PlanID})

	default:
		return apperr.Validation("unknown action: %s", req.Action)
	}
}
