// Package devgateway is a local stand-in for the external auth gateway. It
// speaks the same contract (POST /signup, POST /login returning a token and a
// user) so the dashboard can run and be tested without the hosted service.
package devgateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/ports"
)

const defaultTokenTTL = 3 * time.Hour

var allowedRoles = map[string]struct{}{
	domain.RoleUser:      {},
	domain.RoleAdmin:     {},
	domain.RolePublisher: {},
	domain.RoleMentor:    {},
}

// Claims is the JWT payload issued by the gateway.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Service registers and authenticates accounts.
type Service struct {
	repo     ports.UserRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewService(repo ports.UserRepository, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &Service{repo: repo, secret: []byte(secret), tokenTTL: tokenTTL, now: time.Now}
}

func (s *Service) Signup(ctx context.Context, name, email, password, role string) (string, *domain.User, error) {
	if role == "" {
		role = domain.DefaultSignupRole
	}
	if _, ok := allowedRoles[role]; !ok {
		return "", nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidCredentials, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	created, err := s.repo.Create(ctx, &ports.UserAccount{
		User: domain.User{
			Name:  strings.TrimSpace(name),
			Email: strings.ToLower(strings.TrimSpace(email)),
			Role:  role,
		},
		PasswordHash: string(hash),
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.issue(&created.User)
	if err != nil {
		return "", nil, err
	}
	return token, &created.User, nil
}

// Login never distinguishes an unknown email from a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	acc, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issue(&acc.User)
	if err != nil {
		return "", nil, err
	}
	return token, &acc.User, nil
}

// Verify parses an HS256 token and returns the user it was issued to.
func (s *Service) Verify(token string) (*domain.User, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.User{
		ID:    domain.UserID(claims.Subject),
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}

func (s *Service) issue(user *domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
