package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/sankofa/internal/config"
	"github.com/example/sankofa/internal/metrics"
	"github.com/example/sankofa/internal/rate"
	"github.com/example/sankofa/internal/services"
)

const refreshCookie = "refresh_token"

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	auth    *services.AuthService
	limiter *rate.Limiter // nil when Redis is not configured
	cfg     *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *services.AuthService, limiter *rate.Limiter, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter, cfg: cfg}
}

type loginRequest struct {
	EmailAddress string `json:"email_address"`
	PhoneNumber  string `json:"phone_number"`
}

// Login authenticates by contact, auto-registering unknown ones. The
// refresh token is also set as an http-only cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	contact := req.EmailAddress
	if contact == "" {
		contact = req.PhoneNumber
	}
	if contact == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email or phone is required")
	}

	if err := h.throttle(c, "login:"+contact); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), contact)
	if err != nil {
		if errors.Is(err, services.ErrInvalidContact) {
			metrics.Logins.WithLabelValues("rejected").Inc()
		}
		return err
	}

	outcome := "existing"
	if result.Created {
		outcome = "new"
	}
	metrics.Logins.WithLabelValues(outcome).Inc()

	h.setRefreshCookie(c, result.RefreshToken)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"access_token":  result.AccessToken,
			"refresh_token": result.RefreshToken,
			"user":          result.User,
		},
	})
}

type verifyOtpRequest struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}

// VerifyOtp checks the pending one-time code for a user.
func (h *AuthHandler) VerifyOtp(c *fiber.Ctx) error {
	var req verifyOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.UserID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user_id is required")
	}
	if req.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "code is required")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user_id")
	}

	if err := h.throttle(c, "otp:"+req.UserID); err != nil {
		return err
	}

	if err := h.auth.VerifyOTP(c.UserContext(), userID, req.Code); err != nil {
		metrics.OtpVerifications.WithLabelValues("failed").Inc()
		return err
	}

	metrics.OtpVerifications.WithLabelValues("ok").Inc()
	return c.JSON(fiber.Map{
		"data": fiber.Map{"verified": true},
	})
}

// Refresh rotates the refresh token from the http-only cookie and mints
// a new access token.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookie)
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "no refresh token provided")
	}

	pair, err := h.auth.RefreshTokens(c.UserContext(), token)
	if err != nil {
		metrics.Refreshes.WithLabelValues("failed").Inc()
		return err
	}

	metrics.Refreshes.WithLabelValues("ok").Inc()
	h.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
		},
	})
}

// Logout revokes the session behind the cookie token, scoped to the
// user in the path.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookie)
	if token == "" {
		return fiber.NewError(fiber.StatusBadRequest, "refresh token is required")
	}

	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.auth.Logout(c.UserContext(), token, userID); err != nil {
		return err
	}

	metrics.Logouts.Inc()
	h.clearRefreshCookie(c)
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "logout successful"},
	})
}

// throttle enforces the per-key attempt budget. Redis outages fail open:
// auth availability wins over throttling.
func (h *AuthHandler) throttle(c *fiber.Ctx, key string) error {
	if h.limiter == nil {
		return nil
	}
	err := h.limiter.Allow(c.UserContext(), key)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, rate.ErrLimited):
		return fiber.NewError(fiber.StatusTooManyRequests, "too many attempts")
	default:
		return nil
	}
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Expires:  time.Now().Add(h.cfg.RefreshTokenTTL),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
