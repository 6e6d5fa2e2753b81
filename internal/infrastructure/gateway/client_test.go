package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/ports"
)

func newGateway(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/api/auth/"}, srv.Client(), zerolog.Nop())
}

func respond(body string, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestLogin_NormalizesBothShapes(t *testing.T) {
	wrapped := newGateway(t, respond(`{"data":{"token":"t1","user":{"id":1,"name":"A","email":"a@b.com","role":"user"}}}`, http.StatusOK))
	flat := newGateway(t, respond(`{"token":"t1","user":{"id":1,"name":"A","email":"a@b.com","role":"user"}}`, http.StatusOK))

	req := ports.LoginRequest{Email: "a@b.com", Password: "x"}
	fromWrapped, err := wrapped.Login(context.Background(), req)
	require.NoError(t, err)
	fromFlat, err := flat.Login(context.Background(), req)
	require.NoError(t, err)

	want := &ports.AuthResult{Token: "t1", User: &domain.User{ID: "1", Name: "A", Email: "a@b.com", Role: "user"}}
	assert.Equal(t, want, fromWrapped)
	assert.Equal(t, fromFlat, fromWrapped)
}

func TestLogin_MissingTokenIsProtocolError(t *testing.T) {
	bodies := []string{
		`{"user":{"id":1,"name":"A","email":"a@b.com","role":"user"}}`,
		`{"data":{"user":{"id":1}}}`,
		`{"token":"t1"}`,
		`{"data":null}`,
		`not json`,
	}
	for _, body := range bodies {
		c := newGateway(t, respond(body, http.StatusOK))
		_, err := c.Login(context.Background(), ports.LoginRequest{Email: "a@b.com", Password: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidResponse, body)
	}
}

func TestLogin_ServerMessage(t *testing.T) {
	c := newGateway(t, respond(`{"success":false,"message":"Invalid email or password"}`, http.StatusUnauthorized))

	_, err := c.Login(context.Background(), ports.LoginRequest{Email: "a@b.com", Password: "x"})
	var ge *domain.GatewayError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, http.StatusUnauthorized, ge.Status)
	assert.Equal(t, "Invalid email or password", ge.Message)
}

func TestLogin_ServerErrorWithoutMessage(t *testing.T) {
	c := newGateway(t, respond(`<html>bad gateway</html>`, http.StatusBadGateway))

	_, err := c.Login(context.Background(), ports.LoginRequest{Email: "a@b.com", Password: "x"})
	var ge *domain.GatewayError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, http.StatusBadGateway, ge.Status)
	assert.Empty(t, ge.Message)
}

func TestLogin_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(Config{BaseURL: srv.URL}, nil, zerolog.Nop())

	_, err := c.Login(context.Background(), ports.LoginRequest{Email: "a@b.com", Password: "x"})
	var ge *domain.GatewayError
	require.True(t, errors.As(err, &ge))
	assert.True(t, ge.Transport())
	assert.Equal(t, domain.MsgNetworkError, ge.Message)
}

func TestSignup_DefaultsRoleAndPostsToSignup(t *testing.T) {
	var got map[string]string
	var path string
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		respond(`{"token":"t2","user":{"id":"u2","name":"B","email":"b@c.com","role":"user"}}`, http.StatusCreated)(w, r)
	})

	res, err := c.Signup(context.Background(), ports.SignupRequest{Name: "B", Email: "b@c.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "/api/auth/signup", path)
	assert.Equal(t, "user", got["role"])
	assert.Equal(t, "B", got["name"])
	assert.Equal(t, "t2", res.Token)
	assert.Equal(t, domain.UserID("u2"), res.User.ID)
}

func TestLogin_HonoursContext(t *testing.T) {
	c := newGateway(t, respond(`{}`, http.StatusOK))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Login(ctx, ports.LoginRequest{Email: "a@b.com", Password: "x"})
	var ge *domain.GatewayError
	require.True(t, errors.As(err, &ge))
	assert.True(t, errors.Is(err, context.Canceled))
}
