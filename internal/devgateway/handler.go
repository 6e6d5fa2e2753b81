package devgateway

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tradepulse/dashboard/internal/core/domain"
)

// Response shapes the gateway can answer with.
const (
	ShapeFlat    = "flat"
	ShapeWrapped = "wrapped"
)

const userContextKey = "devgateway.user"

type Handler struct {
	svc   *Service
	shape string
	log   zerolog.Logger
}

func NewHandler(svc *Service, shape string, log zerolog.Logger) *Handler {
	if shape != ShapeWrapped {
		shape = ShapeFlat
	}
	return &Handler{svc: svc, shape: shape, log: log}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin publisher mentor"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authPayload struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type wrappedPayload struct {
	Success bool        `json:"success"`
	Data    authPayload `json:"data"`
}

type messageBody struct {
	Message string `json:"message"`
}

// Signup registers an account and returns a token for it.
//
// @Summary      Register an account (development gateway)
// @Tags         devgateway
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  authPayload
// @Failure      400   {object}  messageBody
// @Failure      409   {object}  messageBody
// @Router       /api/auth/signup [post]
func (h *Handler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageBody{Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageBody{Message: err.Error()})
	}

	token, user, err := h.svc.Signup(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			return c.JSON(http.StatusConflict, messageBody{Message: "User already exists"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			return c.JSON(http.StatusBadRequest, messageBody{Message: err.Error()})
		}
		h.log.Error().Err(err).Msg("signup")
		return c.JSON(http.StatusInternalServerError, messageBody{Message: "Internal server error"})
	}

	h.log.Info().Str("user_id", string(user.ID)).Str("role", user.Role).Msg("account created")
	return c.JSON(http.StatusCreated, h.payload(token, user))
}

// Login authenticates an account and returns a token.
//
// @Summary      Login (development gateway)
// @Tags         devgateway
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authPayload
// @Failure      400   {object}  messageBody
// @Failure      401   {object}  messageBody
// @Router       /api/auth/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageBody{Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageBody{Message: err.Error()})
	}

	token, user, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, messageBody{Message: "Invalid email or password"})
		}
		h.log.Error().Err(err).Msg("login")
		return c.JSON(http.StatusInternalServerError, messageBody{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, h.payload(token, user))
}

// Me returns the user the bearer token was issued to.
//
// @Summary      Current account (development gateway)
// @Tags         devgateway
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  messageBody
// @Router       /api/auth/me [get]
func (h *Handler) Me(c echo.Context) error {
	user, _ := c.Get(userContextKey).(*domain.User)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, messageBody{Message: "Unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (h *Handler) payload(token string, user *domain.User) any {
	p := authPayload{Token: token, User: user}
	if h.shape == ShapeWrapped {
		return wrappedPayload{Success: true, Data: p}
	}
	return p
}
