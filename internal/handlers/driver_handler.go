package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/brightride/brightride-api/internal/apperrors"
	"github.com/brightride/brightride-api/internal/middleware"
	"github.com/brightride/brightride-api/internal/services/matching"
)

type DriverHandler struct {
	Matching *matching.Service
}

func NewDriverHandler(m *matching.Service) *DriverHandler {
	return &DriverHandler{Matching: m}
}

// Available lists available drivers, optionally filtered by ?location=.
func (h *DriverHandler) Available(c *fiber.Ctx) error {
	list, err := h.Matching.AvailableDrivers(c.UserContext(), c.Query("location"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

type DriverAvailabilityReq struct {
	IsAvailable     *bool     `json:"isAvailable"`
	CurrentLocation *string   `json:"currentLocation"`
	CostPerKm       flexFloat `json:"costPerKm"`
}

func (h *DriverHandler) UpdateAvailability(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req DriverAvailabilityReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}
	if req.CostPerKm.invalid {
		errs := apperrors.FieldErrors{}
		errs.Add("costPerKm", "costPerKm must be a number")
		return errs.Err()
	}

	p, err := h.Matching.UpdateDriverAvailability(c.UserContext(), id.Actor, matching.DriverAvailability{
		IsAvailable:     req.IsAvailable,
		CurrentLocation: req.CurrentLocation,
		CostPerKm:       req.CostPerKm.Ptr(),
	})
	if err != nil {
		return err
	}
	return c.JSON(p)
}
