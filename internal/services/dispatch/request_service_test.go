package dispatch

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightride/brightride-api/internal/apperrors"
	"github.com/brightride/brightride-api/internal/events"
	"github.com/brightride/brightride-api/internal/models"
)

func flatTire() NewRequest {
	return NewRequest{Location: "Highway 9", VehicleType: "Sedan", Description: "Flat tire"}
}

func TestCreateServiceRequest(t *testing.T) {
	gdb := newTestDB(t)
	rec := &events.Recorder{}
	svc := NewRequestService(gdb, PermissivePolicy{}, rec)
	p := seedUser(t, gdb, models.RolePassenger, "pat")

	in := flatTire()
	in.Photos = json.RawMessage(`["https://cdn.example.com/a.jpg","https://cdn.example.com/b.jpg"]`)
	req, err := svc.Create(context.Background(), p, in)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, req.Status)
	assert.Nil(t, req.MechanicID)

	var stored models.ServiceRequest
	require.NoError(t, gdb.First(&stored, "id = ?", req.ID).Error)
	var photos []string
	require.NoError(t, json.Unmarshal(stored.Photos, &photos))
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, photos)

	evs := rec.Snapshot()
	require.Len(t, evs, 1)
	assert.Equal(t, "service_request.requested", evs[0].RoutingKey())
}

func TestCreateServiceRequestWithoutPhotos(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb, PermissivePolicy{}, events.NopPublisher{})
	p := seedUser(t, gdb, models.RolePassenger, "pat")

	req, err := svc.Create(context.Background(), p, flatTire())
	require.NoError(t, err)

	var stored models.ServiceRequest
	require.NoError(t, gdb.First(&stored, "id = ?", req.ID).Error)
	assert.Empty(t, stored.Photos)
}

func TestCreateServiceRequestKeepsAnyPhotoPayload(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb, PermissivePolicy{}, events.NopPublisher{})
	p := seedUser(t, gdb, models.RolePassenger, "pat")

	for _, raw := range []string{`[{"url":"x.jpg","size":12}]`, `"single.jpg"`, `null`} {
		in := flatTire()
		in.Photos = json.RawMessage(raw)
		req, err := svc.Create(context.Background(), p, in)
		require.NoError(t, err, raw)

		var stored models.ServiceRequest
		require.NoError(t, gdb.First(&stored, "id = ?", req.ID).Error)
		if raw == `null` {
			assert.Empty(t, stored.Photos)
			continue
		}
		assert.JSONEq(t, raw, string(stored.Photos), raw)
	}
}

func TestMechanicClaimRace(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb, PermissivePolicy{}, events.NopPublisher{})
	p := seedUser(t, gdb, models.RolePassenger, "pat")
	req, err := svc.Create(context.Background(), p, flatTire())
	require.NoError(t, err)

	m1 := seedUser(t, gdb, models.RoleMechanic, "m1")
	m2 := seedUser(t, gdb, models.RoleMechanic, "m2")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, m := range []models.Actor{m1, m2} {
		wg.Add(1)
		go func(i int, m models.Actor) {
			defer wg.Done()
			_, errs[i] = svc.UpdateStatus(context.Background(), req.ID, models.StatusAccepted, m)
		}(i, m)
	}
	wg.Wait()

	var winner models.Actor
	switch {
	case errs[0] == nil && errs[1] != nil:
		winner = m1
		assert.ErrorIs(t, errs[1], apperrors.ErrConflict)
	case errs[1] == nil && errs[0] != nil:
		winner = m2
		assert.ErrorIs(t, errs[0], apperrors.ErrConflict)
	default:
		t.Fatalf("want exactly one winner, got errors %v", errs)
	}

	var stored models.ServiceRequest
	require.NoError(t, gdb.First(&stored, "id = ?", req.ID).Error)
	require.NotNil(t, stored.MechanicID)
	assert.Equal(t, winner.ID, *stored.MechanicID)
}

func TestRequestAlreadyTaken(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb, PermissivePolicy{}, events.NopPublisher{})
	ctx := context.Background()
	p := seedUser(t, gdb, models.RolePassenger, "pat")
	m := seedUser(t, gdb, models.RoleMechanic, "moe")

	req, err := svc.Create(ctx, p, flatTire())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, req.ID, models.StatusCancelled, p)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, req.ID, models.StatusAccepted, m)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "Request already taken", err.Error())
}

func TestRequestLists(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb, PermissivePolicy{}, events.NopPublisher{})
	ctx := context.Background()
	p := seedUser(t, gdb, models.RolePassenger, "pat")
	m := seedUser(t, gdb, models.RoleMechanic, "moe")
	d := seedUser(t, gdb, models.RoleDriver, "dan")

	r1, err := svc.Create(ctx, p, flatTire())
	require.NoError(t, err)
	r2, err := svc.Create(ctx, p, flatTire())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, r1.ID, models.StatusAccepted, m)
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, p)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	mine, err = svc.ListMine(ctx, m)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, r1.ID, mine[0].ID)

	mine, err = svc.ListMine(ctx, d)
	require.NoError(t, err)
	assert.Empty(t, mine)

	_, err = svc.ListPending(ctx, d)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	pending, err := svc.ListPending(ctx, m)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, r2.ID, pending[0].ID)
	require.NotNil(t, pending[0].User)
	assert.Equal(t, "pat", pending[0].User.Name)
}
