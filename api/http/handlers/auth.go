package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kodbank/kodbank/api/http/presenter"
	"github.com/kodbank/kodbank/pkg/account"
	"github.com/kodbank/kodbank/pkg/auth"
	"github.com/kodbank/kodbank/pkg/security/jwt"
)

type AuthHandler struct {
	useCase auth.UseCase
	log     *slog.Logger
}

func NewAuthHandler(useCase auth.UseCase, log *slog.Logger) *AuthHandler {
	return &AuthHandler{useCase: useCase, log: log}
}

type registerRequest struct {
	UID      int64  `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Register handles user registration. Role and balance are assigned
// server-side; the public path only ever creates Customer accounts.
// @Summary Register user
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body registerRequest true "registration payload"
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	acc, err := h.useCase.Register(c.Context(), req.UID, req.Username, req.Email, req.Password, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			return presenter.Error(c, http.StatusBadRequest, "all fields are required")
		case errors.Is(err, account.ErrDuplicateIdentity):
			return presenter.Error(c, http.StatusBadRequest, "user (uid, username or email) already exists")
		default:
			h.log.Error("registration failed", "error", err)
			return presenter.Error(c, http.StatusInternalServerError, "registration failed")
		}
	}

	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"message": "Registration successful",
		"uid":     acc.UID,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles user login. On success the token is both returned in the
// body and set as an HttpOnly session cookie.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	result, err := h.useCase.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			return presenter.Error(c, http.StatusBadRequest, "username and password are required")
		case errors.Is(err, auth.ErrInvalidCredentials):
			return presenter.Error(c, http.StatusUnauthorized, "invalid credentials")
		default:
			h.log.Error("login failed", "error", err, "username", req.Username)
			return presenter.Error(c, http.StatusInternalServerError, "login failed")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     jwt.CookieName,
		Value:    result.Token,
		Expires:  result.ExpiresAt,
		MaxAge:   int(time.Until(result.ExpiresAt).Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"message":  "Login successful",
		"token":    result.Token,
		"role":     string(result.Account.Role),
		"username": result.Account.Username,
	})
}
