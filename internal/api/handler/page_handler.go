package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tradepulse/dashboard/internal/api/views"
	"github.com/tradepulse/dashboard/internal/core/ports"
)

// PageHandler serves the protected dashboard and posts views.
type PageHandler struct {
	feed ports.FeedService
}

func NewPageHandler(feed ports.FeedService) *PageHandler {
	return &PageHandler{feed: feed}
}

func (h *PageHandler) Dashboard(c echo.Context) error {
	user := ctxUser(c)
	view, err := h.feed.Dashboard(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.PageDashboard, views.Page{Title: "Dashboard", User: user, Body: view})
}

func (h *PageHandler) Posts(c echo.Context) error {
	user := ctxUser(c)
	view, err := h.feed.Posts(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.PagePosts, views.Page{Title: "Posts", User: user, Body: view})
}

// APIDashboard returns the dashboard view model.
//
// @Summary      Dashboard data
// @Tags         feed
// @Produce      json
// @Success      200  {object}  ports.DashboardView
// @Failure      401  {object}  api.errorResponse
// @Router       /api/dashboard [get]
func (h *PageHandler) APIDashboard(c echo.Context) error {
	view, err := h.feed.Dashboard(c.Request().Context(), ctxUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// APIPosts returns the posts with rendered bodies.
//
// @Summary      Posts
// @Tags         feed
// @Produce      json
// @Success      200  {object}  ports.PostsView
// @Failure      401  {object}  api.errorResponse
// @Router       /api/posts [get]
func (h *PageHandler) APIPosts(c echo.Context) error {
	view, err := h.feed.Posts(c.Request().Context(), ctxUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

type composeResponse struct {
	CanPublish bool   `json:"canPublish"`
	Author     string `json:"author"`
	Role       string `json:"role"`
}

// APICompose tells the privileged role's client it may open the post composer.
//
// @Summary      Post composer access
// @Tags         feed
// @Produce      json
// @Success      200  {object}  composeResponse
// @Failure      401  {object}  api.errorResponse
// @Failure      403  {object}  api.errorResponse
// @Router       /api/posts/compose [get]
func (h *PageHandler) APICompose(c echo.Context) error {
	user := ctxUser(c)
	if !h.feed.CanPublish(user) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, composeResponse{CanPublish: true, Author: user.Name, Role: user.Role})
}
