package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/brightride/brightride-api/internal/apperrors"
	"github.com/brightride/brightride-api/internal/middleware"
	"github.com/brightride/brightride-api/internal/models"
	"github.com/brightride/brightride-api/internal/services/dispatch"
	"github.com/brightride/brightride-api/internal/services/matching"
)

// MechanicHandler serves /mechanics: service requests plus the mechanic
// side of matching.
type MechanicHandler struct {
	Requests *dispatch.RequestService
	Matching *matching.Service
}

func NewMechanicHandler(requests *dispatch.RequestService, m *matching.Service) *MechanicHandler {
	return &MechanicHandler{Requests: requests, Matching: m}
}

type CreateRequestReq struct {
	Location    string          `json:"location"`
	VehicleType string          `json:"vehicleType"`
	Description string          `json:"description"`
	Photos      json.RawMessage `json:"photos"` // stored as sent
}

type NearbyRequestResponse struct {
	models.ServiceRequest
	User *PartyMini `json:"user"`
}

func toNearbyRequest(r models.ServiceRequest) NearbyRequestResponse {
	resp := NearbyRequestResponse{ServiceRequest: r}
	if r.User != nil {
		resp.User = &PartyMini{Name: r.User.Name, Phone: r.User.Phone}
	}
	return resp
}

func (h *MechanicHandler) Create(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req CreateRequestReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}

	errs := apperrors.FieldErrors{}
	required(errs, "location", req.Location)
	required(errs, "vehicleType", req.VehicleType)
	required(errs, "description", req.Description)
	if err := errs.Err(); err != nil {
		return err
	}

	sr, err := h.Requests.Create(c.UserContext(), id.Actor, dispatch.NewRequest{
		Location:    req.Location,
		VehicleType: req.VehicleType,
		Description: req.Description,
		Photos:      req.Photos,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(sr)
}

func (h *MechanicHandler) List(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	reqs, err := h.Requests.ListMine(c.UserContext(), id.Actor)
	if err != nil {
		return err
	}
	return c.JSON(reqs)
}

// Nearby lists pending requests for mechanics. "Nearby" is every pending
// request; there is no distance filter.
func (h *MechanicHandler) Nearby(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	reqs, err := h.Requests.ListPending(c.UserContext(), id.Actor)
	if err != nil {
		return err
	}

	out := make([]NearbyRequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, toNearbyRequest(r))
	}
	return c.JSON(out)
}

func (h *MechanicHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	reqID, err := entityID(c, "Request")
	if err != nil {
		return err
	}
	next, err := requestedStatus(c)
	if err != nil {
		return err
	}

	sr, err := h.Requests.UpdateStatus(c.UserContext(), reqID, next, id.Actor)
	if err != nil {
		return err
	}
	return c.JSON(sr)
}

func (h *MechanicHandler) Available(c *fiber.Ctx) error {
	list, err := h.Matching.AvailableMechanics(c.UserContext(), c.Query("location"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

type MechanicAvailabilityReq struct {
	IsAvailable     *bool   `json:"isAvailable"`
	Location        *string `json:"location"`
	ServicesOffered *string `json:"servicesOffered"`
}

func (h *MechanicHandler) UpdateAvailability(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req MechanicAvailabilityReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}

	p, err := h.Matching.UpdateMechanicAvailability(c.UserContext(), id.Actor, matching.MechanicAvailability{
		IsAvailable:     req.IsAvailable,
		Location:        req.Location,
		ServicesOffered: req.ServicesOffered,
	})
	if err != nil {
		return err
	}
	return c.JSON(p)
}
