package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tradepulse/dashboard/internal/api/metrics"
	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/ports"
)

const (
	OpSignup = "signup"
	OpLogin  = "login"
)

// AuthService implements signup, login and logout on top of the auth gateway
// and a session container.
type AuthService struct {
	gateway  ports.AuthGateway
	validate *formValidator
	inflight singleflight.Group
	log      zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService builds an AuthService accepting signupRoles on signup.
func NewAuthService(gateway ports.AuthGateway, signupRoles []string, log zerolog.Logger) *AuthService {
	if len(signupRoles) == 0 {
		signupRoles = []string{domain.RoleUser, domain.RoleAdmin, domain.RolePublisher}
	}
	return &AuthService{
		gateway:  gateway,
		validate: newFormValidator(signupRoles),
		log:      log.With().Str("component", "auth_service").Logger(),
	}
}

// Signup validates the form locally, registers with the gateway and logs the
// session in. Nothing is sent to the gateway when validation fails.
func (s *AuthService) Signup(ctx context.Context, sess ports.Session, form ports.SignupForm) (*domain.User, error) {
	form.Email = strings.TrimSpace(form.Email)
	form.Name = strings.TrimSpace(form.Name)
	if form.Role == "" {
		form.Role = domain.DefaultSignupRole
	}

	if err := s.validate.signup(form); err != nil {
		s.record(OpSignup, err)
		return nil, err
	}

	res, err := s.call(ctx, OpSignup, form.Email, form.Password, func(ctx context.Context) (*ports.AuthResult, error) {
		return s.gateway.Signup(ctx, ports.SignupRequest{
			Name:     form.Name,
			Email:    form.Email,
			Password: form.Password,
			Role:     form.Role,
		})
	})
	if err != nil {
		s.record(OpSignup, err)
		return nil, err
	}

	if err := sess.SetCredentials(ctx, res.User, res.Token); err != nil {
		s.record(OpSignup, err)
		return nil, err
	}

	s.record(OpSignup, nil)
	s.log.Info().Str("user_id", string(res.User.ID)).Str("role", res.User.Role).Msg("signed up")
	return res.User.Clone(), nil
}

// Login validates the form locally, authenticates with the gateway and logs
// the session in.
func (s *AuthService) Login(ctx context.Context, sess ports.Session, form ports.LoginForm) (*domain.User, error) {
	form.Email = strings.TrimSpace(form.Email)

	if err := s.validate.login(form); err != nil {
		s.record(OpLogin, err)
		return nil, err
	}

	res, err := s.call(ctx, OpLogin, form.Email, form.Password, func(ctx context.Context) (*ports.AuthResult, error) {
		return s.gateway.Login(ctx, ports.LoginRequest{Email: form.Email, Password: form.Password})
	})
	if err != nil {
		s.record(OpLogin, err)
		return nil, err
	}

	if err := sess.SetCredentials(ctx, res.User, res.Token); err != nil {
		s.record(OpLogin, err)
		return nil, err
	}

	s.record(OpLogin, nil)
	s.log.Info().Str("user_id", string(res.User.ID)).Msg("logged in")
	return res.User.Clone(), nil
}

// Logout ends the session; storage is cleared by the transition itself.
func (s *AuthService) Logout(ctx context.Context, sess ports.Session) error {
	if err := sess.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("logout left durable storage behind")
		return err
	}
	return nil
}

// call collapses identical submissions that are already in flight, so a
// double submit reaches the gateway once. Submissions only join when
// operation, email and password all match. The shared call is detached from
// every caller's cancellation and bounded by the gateway client's timeout; a
// caller that goes away stops waiting without failing the others.
func (s *AuthService) call(ctx context.Context, op, email, password string, fn func(context.Context) (*ports.AuthResult, error)) (*ports.AuthResult, error) {
	sum := sha256.Sum256([]byte(op + "\x00" + strings.ToLower(email) + "\x00" + password))
	key := hex.EncodeToString(sum[:])
	shared := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(key, func() (any, error) {
		return fn(shared)
	})

	var r singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-ch:
	}
	if r.Shared {
		s.log.Debug().Str("op", op).Msg("joined in-flight gateway call")
	}
	if r.Err != nil {
		return nil, r.Err
	}
	res := r.Val.(*ports.AuthResult)
	return &ports.AuthResult{Token: res.Token, User: res.User.Clone()}, nil
}

func (s *AuthService) record(op string, err error) {
	metrics.AuthAttemptsTotal.WithLabelValues(op, Outcome(err)).Inc()
}

// Outcome classifies an auth error for metrics and logs.
func Outcome(err error) string {
	var ve *domain.ValidationError
	var ge *domain.GatewayError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ve):
		return "validation_error"
	case errors.Is(err, domain.ErrInvalidResponse):
		return "invalid_response"
	case errors.As(err, &ge) && ge.Transport():
		return "transport_error"
	case errors.As(err, &ge):
		return "rejected"
	default:
		return "error"
	}
}

// FormError is the message shown at the form boundary for err.
func FormError(op string, err error) string {
	var ve *domain.ValidationError
	var ge *domain.GatewayError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, domain.ErrInvalidResponse):
		return domain.ErrInvalidResponse.Error()
	case errors.As(err, &ge) && ge.Message != "":
		return ge.Message
	case errors.As(err, &ge) && ge.Transport():
		return domain.MsgNetworkError
	case op == OpSignup:
		return domain.MsgSignupFailed
	default:
		return domain.MsgLoginFailed
	}
}
