package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tradepulse/dashboard/internal/api/middleware"
	"github.com/tradepulse/dashboard/internal/api/views"
	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/ports"
	"github.com/tradepulse/dashboard/internal/core/service"
)

const (
	modeLogin  = "login"
	modeSignup = "signup"
)

type AuthHandler struct {
	authService ports.AuthService
	roles       []string
	log         zerolog.Logger
}

// NewAuthHandler builds the handler; roles are offered on the signup form.
func NewAuthHandler(authService ports.AuthService, roles []string, log zerolog.Logger) *AuthHandler {
	if len(roles) == 0 {
		roles = []string{domain.RoleUser, domain.RoleAdmin, domain.RolePublisher}
	}
	return &AuthHandler{authService: authService, roles: roles, log: log}
}

type sessionResponse struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *domain.User `json:"user"`
}

// ShowAuth renders the login form, or the signup form with ?mode=signup.
func (h *AuthHandler) ShowAuth(c echo.Context) error {
	mode := modeLogin
	if c.QueryParam("mode") == modeSignup {
		mode = modeSignup
	}
	return h.renderForm(c, views.AuthForm{Mode: mode, Role: domain.DefaultSignupRole})
}

// Login handles the login form. Failures re-render the form with the message.
func (h *AuthHandler) Login(c echo.Context) error {
	var form ports.LoginForm
	if err := c.Bind(&form); err != nil {
		return h.renderForm(c, views.AuthForm{Mode: modeLogin, Error: domain.MsgLoginFailed})
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	if _, err := h.authService.Login(c.Request().Context(), sess, form); err != nil {
		h.logFailure(c, service.OpLogin, err)
		return h.renderForm(c, views.AuthForm{Mode: modeLogin, Error: service.FormError(service.OpLogin, err), Email: form.Email})
	}
	return c.Redirect(http.StatusSeeOther, middleware.DashboardPath)
}

// Signup handles the signup form. Failures re-render the form with the message.
func (h *AuthHandler) Signup(c echo.Context) error {
	var form ports.SignupForm
	if err := c.Bind(&form); err != nil {
		return h.renderForm(c, views.AuthForm{Mode: modeSignup, Error: domain.MsgSignupFailed})
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	if _, err := h.authService.Signup(c.Request().Context(), sess, form); err != nil {
		h.logFailure(c, service.OpSignup, err)
		return h.renderForm(c, views.AuthForm{
			Mode:  modeSignup,
			Error: service.FormError(service.OpSignup, err),
			Name:  form.Name,
			Email: form.Email,
			Role:  form.Role,
		})
	}
	return c.Redirect(http.StatusSeeOther, middleware.DashboardPath)
}

// Logout ends the session and returns to the auth page.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), sess); err != nil {
		// the session is logged out regardless; only storage cleanup failed
		h.log.Warn().Err(err).Msg("logout storage cleanup")
	}
	return c.Redirect(http.StatusSeeOther, middleware.AuthPath)
}

// APISignup registers through the auth gateway and starts a session.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ports.SignupForm  true  "Signup form"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      502   {object}  api.errorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) APISignup(c echo.Context) error {
	var form ports.SignupForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Signup(c.Request().Context(), sess, form)
	if err != nil {
		h.logFailure(c, service.OpSignup, err)
		return authHTTPError(service.OpSignup, err)
	}
	return c.JSON(http.StatusOK, sessionResponse{IsAuthenticated: true, User: user})
}

// APILogin authenticates through the auth gateway and starts a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ports.LoginForm  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      401   {object}  api.errorResponse
// @Failure      502   {object}  api.errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) APILogin(c echo.Context) error {
	var form ports.LoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Login(c.Request().Context(), sess, form)
	if err != nil {
		h.logFailure(c, service.OpLogin, err)
		return authHTTPError(service.OpLogin, err)
	}
	return c.JSON(http.StatusOK, sessionResponse{IsAuthenticated: true, User: user})
}

// APILogout ends the session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) APILogout(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), sess); err != nil {
		h.log.Warn().Err(err).Msg("logout storage cleanup")
	}
	return c.JSON(http.StatusOK, sessionResponse{})
}

// APISession reports the current session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *AuthHandler) APISession(c echo.Context) error {
	user := ctxUser(c)
	return c.JSON(http.StatusOK, sessionResponse{IsAuthenticated: user != nil, User: user})
}

func (h *AuthHandler) renderForm(c echo.Context, form views.AuthForm) error {
	form.Roles = h.roles
	if form.Role == "" {
		form.Role = domain.DefaultSignupRole
	}
	title := "Login"
	if form.Mode == modeSignup {
		title = "Sign up"
	}
	return c.Render(http.StatusOK, views.PageAuth, views.Page{Title: title, Body: form})
}

func (h *AuthHandler) logFailure(c echo.Context, op string, err error) {
	ev := h.log.Info()
	if service.Outcome(err) == "error" {
		ev = h.log.Error()
	}
	ev.Err(err).
		Str("op", op).
		Str("outcome", service.Outcome(err)).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("auth attempt failed")
}

// authHTTPError maps an auth failure to a status code carrying the form message.
func authHTTPError(op string, err error) error {
	msg := service.FormError(op, err)

	var ve *domain.ValidationError
	var ge *domain.GatewayError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, msg)
	case errors.Is(err, domain.ErrInvalidResponse):
		return echo.NewHTTPError(http.StatusBadGateway, msg)
	case errors.As(err, &ge) && ge.Status >= 400 && ge.Status < 500:
		return echo.NewHTTPError(ge.Status, msg)
	case errors.As(err, &ge):
		return echo.NewHTTPError(http.StatusBadGateway, msg)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, domain.MsgInternalError).SetInternal(err)
	}
}
