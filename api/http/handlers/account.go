package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/kodbank/kodbank/api/http/presenter"
	"github.com/kodbank/kodbank/pkg/account"
	"github.com/kodbank/kodbank/pkg/auth"
)

// AccountHandler serves authorized account resources. It runs behind the
// JWT middleware, which puts the verified token subject into locals.
type AccountHandler struct {
	useCase auth.UseCase
	log     *slog.Logger
}

func NewAccountHandler(useCase auth.UseCase, log *slog.Logger) *AccountHandler {
	return &AccountHandler{useCase: useCase, log: log}
}

// Balance returns the balance of the authenticated account. The account
// is re-fetched from storage: a structurally valid token whose account
// no longer exists yields 404, not an authentication error.
// @Summary Check balance
// @Tags    auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /auth/balance [get]
func (h *AccountHandler) Balance(c *fiber.Ctx) error {
	subject, _ := c.Locals("subject").(string)
	if subject == "" {
		return presenter.Error(c, http.StatusUnauthorized, "invalid token")
	}

	balance, err := h.useCase.Balance(c.Context(), subject)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "user not found")
		}
		h.log.Error("balance check failed", "error", err, "subject", subject)
		return presenter.Error(c, http.StatusInternalServerError, "server error while checking balance")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{"balance": balance})
}
