package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/brightride/brightride-api/internal/middleware"
	"github.com/brightride/brightride-api/internal/models"
	"github.com/brightride/brightride-api/internal/services/dispatch"
)

type DashboardHandler struct {
	Rides    *dispatch.RideService
	Requests *dispatch.RequestService
}

func NewDashboardHandler(rides *dispatch.RideService, requests *dispatch.RequestService) *DashboardHandler {
	return &DashboardHandler{Rides: rides, Requests: requests}
}

type DashboardResponse struct {
	Rides    []models.Ride           `json:"rides"`
	Requests []models.ServiceRequest `json:"requests"`
}

// Get returns the caller's rides and service requests, read concurrently.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var resp DashboardResponse
	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() error {
		rides, err := h.Rides.ListMine(ctx, id.Actor)
		resp.Rides = rides
		return err
	})
	g.Go(func() error {
		reqs, err := h.Requests.ListMine(ctx, id.Actor)
		resp.Requests = reqs
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return c.JSON(resp)
}
