package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/brightride/brightride-api/internal/middleware"
	"github.com/brightride/brightride-api/internal/services/account"
)

const (
	oauthStateCookie = "oauth_state"
	googleUserInfo   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type GoogleOAuthHandler struct {
	Accounts        *account.Service
	Expires         int
	FrontendBaseURL string
	OAuth           *oauth2.Config
}

func NewGoogleOAuthHandler(accounts *account.Service, expiresMin int, clientID, secret, redirect, frontend string) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		Accounts:        accounts,
		Expires:         expiresMin,
		FrontendBaseURL: strings.TrimRight(frontend, "/"),
		OAuth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: secret,
			RedirectURL:  redirect,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (h *GoogleOAuthHandler) Start(c *fiber.Ctx) error {
	st := randomState(32)
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    st,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		MaxAge:   10 * 60,
	})
	return c.Redirect(h.OAuth.AuthCodeURL(st), http.StatusTemporaryRedirect)
}

type googleProfile struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// Callback finishes the code flow, signs the user in (creating a passenger
// on first visit) and hands the token to the frontend.
func (h *GoogleOAuthHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing code/state")
	}
	if st := c.Cookies(oauthStateCookie); st == "" || st != state {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid state")
	}
	c.Cookie(&fiber.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1, HTTPOnly: true, SameSite: "Lax"})

	tok, err := h.OAuth.Exchange(c.UserContext(), code)
	if err != nil {
		log.Warnw("google code exchange failed", "request_id", c.Locals("requestid"), "error", err)
		return fiber.NewError(fiber.StatusBadRequest, "Failed to exchange code")
	}

	resp, err := h.OAuth.Client(c.UserContext(), tok).Get(googleUserInfo)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "Failed to fetch userinfo")
	}
	defer resp.Body.Close()

	var gp googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&gp); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "Failed to decode userinfo")
	}
	if strings.TrimSpace(gp.Email) == "" || !gp.VerifiedEmail {
		return fiber.NewError(fiber.StatusBadRequest, "Google account has no verified email")
	}

	sess, err := h.Accounts.SignIn(c.UserContext(), gp.Email, strings.TrimSpace(gp.Name))
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    sess.Token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})
	return c.Redirect(h.FrontendBaseURL+"/auth/callback?token="+url.QueryEscape(sess.Token), http.StatusTemporaryRedirect)
}
