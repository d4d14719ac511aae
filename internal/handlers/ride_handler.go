package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/brightride/brightride-api/internal/apperrors"
	"github.com/brightride/brightride-api/internal/middleware"
	"github.com/brightride/brightride-api/internal/models"
	"github.com/brightride/brightride-api/internal/services/dispatch"
)

type RideHandler struct {
	Rides *dispatch.RideService
}

func NewRideHandler(rides *dispatch.RideService) *RideHandler {
	return &RideHandler{Rides: rides}
}

type CreateRideReq struct {
	Pickup        string    `json:"pickup"`
	Dropoff       string    `json:"dropoff"`
	Type          string    `json:"type"`
	ScheduledTime string    `json:"scheduledTime"`
	Price         flexFloat `json:"price"`
	DriverID      string    `json:"driverId"`
}

// PartyMini is the contact card attached to a pending ride or request.
type PartyMini struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type PendingRideResponse struct {
	models.Ride
	Passenger *PartyMini `json:"passenger"`
}

func toPendingRide(r models.Ride) PendingRideResponse {
	resp := PendingRideResponse{Ride: r}
	if r.Passenger != nil {
		resp.Passenger = &PartyMini{Name: r.Passenger.Name, Phone: r.Passenger.Phone}
	}
	return resp
}

// Layouts accepted for scheduledTime. Browsers post datetime-local values
// without seconds or zone; those are read as UTC.
var scheduledLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04"}

func parseScheduledTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	for _, layout := range scheduledLayouts {
		if t, lerr := time.ParseInLocation(layout, s, time.UTC); lerr == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func (h *RideHandler) Create(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req CreateRideReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}

	errs := apperrors.FieldErrors{}
	required(errs, "pickup", req.Pickup)
	required(errs, "dropoff", req.Dropoff)
	required(errs, "type", req.Type)

	in := dispatch.NewRide{
		Pickup:  req.Pickup,
		Dropoff: req.Dropoff,
		Type:    req.Type,
		Price:   req.Price.Ptr(),
	}
	if req.Price.invalid {
		errs.Add("price", "price must be a number")
	}
	if s := strings.TrimSpace(req.ScheduledTime); s != "" {
		t, err := parseScheduledTime(s)
		if err != nil {
			errs.Add("scheduledTime", "scheduledTime is not a valid date and time")
		} else {
			in.ScheduledTime = &t
		}
	}
	if s := strings.TrimSpace(req.DriverID); s != "" {
		driverID, err := uuid.Parse(s)
		if err != nil {
			errs.Add("driverId", "driverId is not valid")
		} else {
			in.DriverID = &driverID
		}
	}
	if err := errs.Err(); err != nil {
		return err
	}

	ride, err := h.Rides.Create(c.UserContext(), id.Actor, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ride)
}

// List returns the caller's rides, scoped by role.
func (h *RideHandler) List(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	rides, err := h.Rides.ListMine(c.UserContext(), id.Actor)
	if err != nil {
		return err
	}
	return c.JSON(rides)
}

// Available lists pending rides for drivers.
func (h *RideHandler) Available(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	rides, err := h.Rides.ListPending(c.UserContext(), id.Actor)
	if err != nil {
		return err
	}

	out := make([]PendingRideResponse, 0, len(rides))
	for _, r := range rides {
		out = append(out, toPendingRide(r))
	}
	return c.JSON(out)
}

func (h *RideHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	rideID, err := entityID(c, "Ride")
	if err != nil {
		return err
	}
	next, err := requestedStatus(c)
	if err != nil {
		return err
	}

	ride, err := h.Rides.UpdateStatus(c.UserContext(), rideID, next, id.Actor)
	if err != nil {
		return err
	}
	return c.JSON(ride)
}
