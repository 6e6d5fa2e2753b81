package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/ports"
)

type stubFeedService struct {
	dashboardFn func(ctx context.Context, user *domain.User) (*ports.DashboardView, error)
	postsFn     func(ctx context.Context, user *domain.User) (*ports.PostsView, error)
	publisher   string
}

func (s *stubFeedService) Dashboard(ctx context.Context, user *domain.User) (*ports.DashboardView, error) {
	return s.dashboardFn(ctx, user)
}

func (s *stubFeedService) Posts(ctx context.Context, user *domain.User) (*ports.PostsView, error) {
	return s.postsFn(ctx, user)
}

func (s *stubFeedService) CanPublish(user *domain.User) bool {
	return user != nil && user.Role == s.publisher
}

func dashboardFor(_ context.Context, user *domain.User) (*ports.DashboardView, error) {
	return &ports.DashboardView{
		User:    user,
		Initial: user.Initial(),
		Stats:   ports.StatsView{TotalValue: "$125,430.50", DailyChange: "-$120.25", DailyChangePercent: "-0.5%"},
		Portfolio: []ports.AssetView{
			{Symbol: "BTC", Name: "Bitcoin", Amount: "1.5", Value: "$94,072.88", Allocation: "75%", Change: "+2.1%", Positive: true},
		},
		TradeCount: 5,
	}, nil
}

func TestPageHandler_Dashboard_RendersForUser(t *testing.T) {
	e := newTestEcho(t)
	h := NewPageHandler(&stubFeedService{dashboardFn: dashboardFor})

	c, rec, sess := newContext(e, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if err := sess.SetCredentials(context.Background(), alice, "tok"); err != nil {
		t.Fatalf("set credentials: %v", err)
	}
	if err := h.Dashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Welcome back, Alice!", "$125,430.50", "-$120.25", "75%", "Total Trades: 5"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q", want)
		}
	}
}

func TestPageHandler_Dashboard_FeedError(t *testing.T) {
	e := newTestEcho(t)
	wantErr := errors.New("feed down")
	h := NewPageHandler(&stubFeedService{dashboardFn: func(context.Context, *domain.User) (*ports.DashboardView, error) {
		return nil, wantErr
	}})

	c, rec, _ := newContext(e, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if err := h.Dashboard(c); !errors.Is(err, wantErr) {
		t.Fatalf("expected feed error, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatal("expected nothing rendered on error")
	}
}

func TestPageHandler_Posts_CreateCardOnlyForPublisher(t *testing.T) {
	posts := func(_ context.Context, user *domain.User) (*ports.PostsView, error) {
		return &ports.PostsView{
			User:       user,
			CanPublish: user.Role == domain.RoleMentor,
			Posts: []ports.PostView{{
				Post:     domain.Post{ID: "p1", Author: "Sarah", Role: domain.RoleMentor, Title: "Risk first"},
				BodyHTML: "<p>Size <strong>small</strong>.</p>\n",
			}},
		}, nil
	}

	tests := []struct {
		role     string
		wantCard bool
	}{
		{domain.RoleMentor, true},
		{domain.RoleUser, false},
	}
	for _, tt := range tests {
		e := newTestEcho(t)
		h := NewPageHandler(&stubFeedService{postsFn: posts, publisher: domain.RoleMentor})

		c, rec, sess := newContext(e, httptest.NewRequest(http.MethodGet, "/posts", nil))
		user := &domain.User{ID: "u2", Name: "Bo", Email: "bo@example.com", Role: tt.role}
		if err := sess.SetCredentials(context.Background(), user, "tok"); err != nil {
			t.Fatalf("set credentials: %v", err)
		}
		if err := h.Posts(c); err != nil {
			t.Fatalf("%s: handler error: %v", tt.role, err)
		}

		body := rec.Body.String()
		if got := strings.Contains(body, "Create a Post"); got != tt.wantCard {
			t.Fatalf("%s: create card shown = %v, want %v", tt.role, got, tt.wantCard)
		}
		if !strings.Contains(body, "<strong>small</strong>") {
			t.Fatalf("%s: expected rendered markdown body", tt.role)
		}
	}
}

func TestPageHandler_APIDashboard_JSON(t *testing.T) {
	e := newTestEcho(t)
	h := NewPageHandler(&stubFeedService{dashboardFn: dashboardFor})

	c, rec, sess := newContext(e, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	if err := sess.SetCredentials(context.Background(), alice, "tok"); err != nil {
		t.Fatalf("set credentials: %v", err)
	}
	if err := h.APIDashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["initial"] != "A" {
		t.Fatalf("expected initial A, got %v", resp["initial"])
	}
	stats, ok := resp["stats"].(map[string]any)
	if !ok || stats["totalValue"] != "$125,430.50" {
		t.Fatalf("unexpected stats: %v", resp["stats"])
	}
}

func TestPageHandler_APICompose(t *testing.T) {
	tests := []struct {
		role     string
		wantCode int
	}{
		{domain.RoleMentor, http.StatusOK},
		{domain.RolePublisher, http.StatusForbidden},
		{domain.RoleUser, http.StatusForbidden},
	}
	for _, tt := range tests {
		e := newTestEcho(t)
		h := NewPageHandler(&stubFeedService{publisher: domain.RoleMentor})

		c, rec, sess := newContext(e, httptest.NewRequest(http.MethodGet, "/api/posts/compose", nil))
		user := &domain.User{ID: "u3", Name: "Sarah", Email: "s@example.com", Role: tt.role}
		if err := sess.SetCredentials(context.Background(), user, "tok"); err != nil {
			t.Fatalf("set credentials: %v", err)
		}
		if err := h.APICompose(c); err != nil {
			t.Fatalf("%s: handler error: %v", tt.role, err)
		}
		if rec.Code != tt.wantCode {
			t.Fatalf("%s: expected %d, got %d", tt.role, tt.wantCode, rec.Code)
		}
	}
}
