package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/brightride/brightride-api/internal/apperrors"
	"github.com/brightride/brightride-api/internal/middleware"
	"github.com/brightride/brightride-api/internal/models"
	"github.com/brightride/brightride-api/internal/services/account"
	"github.com/brightride/brightride-api/internal/session"
)

type AuthHandler struct {
	Accounts *account.Service
	Revoker  session.Revoker
	Expires  int
}

func NewAuthHandler(accounts *account.Service, revoker session.Revoker, expiresMin int) *AuthHandler {
	return &AuthHandler{Accounts: accounts, Revoker: revoker, Expires: expiresMin}
}

type RegisterReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`

	// driver
	VehicleDetails string    `json:"vehicleDetails"`
	LicenseNumber  string    `json:"licenseNumber"`
	CostPerKm      flexFloat `json:"costPerKm"`

	// mechanic
	ShopName        string `json:"shopName"`
	ServicesOffered string `json:"servicesOffered"`

	// driver or mechanic
	Location string `json:"location"`
}

// fields picks the role variant. Attributes of other roles are dropped.
func (r RegisterReq) fields(role models.Role) account.RoleFields {
	switch role {
	case models.RoleDriver:
		return account.DriverFields{
			VehicleDetails: r.VehicleDetails,
			LicenseNumber:  r.LicenseNumber,
			Location:       r.Location,
			CostPerKm:      r.CostPerKm.Ptr(),
		}
	case models.RoleMechanic:
		return account.MechanicFields{
			ShopName:        r.ShopName,
			ServicesOffered: r.ServicesOffered,
			Location:        r.Location,
		}
	}
	return account.PassengerFields{}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}

	errs := apperrors.FieldErrors{}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if !strings.Contains(email, "@") {
		errs.Add("email", "Email is not valid")
	}
	if req.Password == "" {
		errs.Add("password", "Password is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		errs.Add("name", "Name is required")
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		errs.Add("role", "Role must be PASSENGER, DRIVER or MECHANIC")
	}
	if req.CostPerKm.invalid {
		errs.Add("costPerKm", "Cost per km must be a number")
	}
	if err := errs.Err(); err != nil {
		return err
	}

	sess, err := h.Accounts.Register(c.UserContext(), account.Registration{
		Email:    email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Fields:   req.fields(role),
	})
	if err != nil {
		return err
	}

	log.Infow("user registered", "request_id", c.Locals("requestid"), "user_id", sess.User.ID, "role", sess.User.Role)
	h.setTokenCookie(c, sess.Token)
	return c.Status(fiber.StatusCreated).JSON(sess)
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}

	sess, err := h.Accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, sess.Token)
	return c.JSON(sess)
}

// Logout revokes the presented token for the rest of its lifetime and
// clears the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	if id.TokenID != "" {
		if err := h.Revoker.Revoke(c.UserContext(), id.TokenID, time.Until(id.ExpiresAt)); err != nil {
			return err
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	u, err := h.Accounts.CurrentUser(c.UserContext(), id.ID)
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})
}
