// Package gateway is the HTTP client for the external auth gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tradepulse/dashboard/internal/api/metrics"
	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/ports"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 1 << 20
)

// Config captures the gateway location and request timeout.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to {BaseURL}/signup and {BaseURL}/login. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

var _ ports.AuthGateway = (*Client)(nil)

// NewClient builds a Client. httpClient may be nil.
func NewClient(cfg Config, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		log:     log.With().Str("component", "auth_gateway").Logger(),
	}
}

func (c *Client) Signup(ctx context.Context, req ports.SignupRequest) (*ports.AuthResult, error) {
	if req.Role == "" {
		req.Role = domain.DefaultSignupRole
	}
	return c.post(ctx, "signup", req)
}

func (c *Client) Login(ctx context.Context, req ports.LoginRequest) (*ports.AuthResult, error) {
	return c.post(ctx, "login", req)
}

// authEnvelope accepts both {token,user} and {data:{token,user}}.
type authEnvelope struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
	Data  *struct {
		Token string       `json:"token"`
		User  *domain.User `json:"user"`
	} `json:"data"`
}

func (e *authEnvelope) normalize() (*ports.AuthResult, error) {
	token, user := e.Token, e.User
	if e.Data != nil {
		if token == "" {
			token = e.Data.Token
		}
		if user == nil {
			user = e.Data.User
		}
	}
	if token == "" || user == nil {
		return nil, domain.ErrInvalidResponse
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

// errorBody is the gateway's JSON error shape.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) post(ctx context.Context, op string, payload any) (res *ports.AuthResult, err error) {
	start := time.Now()
	defer func() {
		metrics.GatewayRequestDuration.WithLabelValues(op, gatewayOutcome(err)).Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+op, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Msg("auth gateway unreachable")
		return nil, &domain.GatewayError{Message: domain.MsgNetworkError, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.GatewayError{Status: resp.StatusCode, Message: domain.MsgNetworkError, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		c.log.Debug().Int("status", resp.StatusCode).Str("op", op).Str("message", msg).Msg("auth gateway rejected request")
		return nil, &domain.GatewayError{Status: resp.StatusCode, Message: msg}
	}

	var env authEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Warn().Err(err).Str("op", op).Msg("auth gateway sent malformed body")
		return nil, domain.ErrInvalidResponse
	}
	return env.normalize()
}

func gatewayOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, domain.ErrInvalidResponse) {
		return "invalid_response"
	}
	var ge *domain.GatewayError
	if errors.As(err, &ge) {
		if ge.Transport() {
			return "transport_error"
		}
		return "rejected"
	}
	return "error"
}
