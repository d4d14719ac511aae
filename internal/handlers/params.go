package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/brightride/brightride-api/internal/apperrors"
	"github.com/brightride/brightride-api/internal/models"
)

// flexFloat accepts 12.5, "12.5", "" and null. Browsers post form values as
// strings, older clients send numbers.
type flexFloat struct {
	v       *float64
	invalid bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			f.invalid = true
			return nil
		}
		f.v = &n
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		f.invalid = true
		return nil
	}
	f.v = &n
	return nil
}

func (f flexFloat) Ptr() *float64 { return f.v }

// entityID parses the :id route param. Ids are uuids, so anything else can
// never match a row.
func entityID(c *fiber.Ctx, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperrors.New(apperrors.ErrNotFound, label+" not found")
	}
	return id, nil
}

type statusReq struct {
	Status string `json:"status"`
}

func requestedStatus(c *fiber.Ctx) (models.Status, error) {
	var req statusReq
	if err := c.BodyParser(&req); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}
	st, ok := models.ParseStatus(req.Status)
	if !ok {
		errs := apperrors.FieldErrors{}
		errs.Add("status", "Status must be PENDING, ACCEPTED, COMPLETED or CANCELLED")
		return "", errs.Err()
	}
	return st, nil
}

func required(errs apperrors.FieldErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, field+" is required")
	}
}
