package ports

import (
	"context"

	"github.com/tradepulse/dashboard/internal/core/domain"
)

// Session is the mutating half of a session container.
type Session interface {
	SetCredentials(ctx context.Context, user *domain.User, token string) error
	Logout(ctx context.Context) error
}

// SignupForm is the signup form as submitted by the browser.
type SignupForm struct {
	Name            string `json:"name" form:"name" validate:"required"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	Role            string `json:"role" form:"role"`
}

// LoginForm is the login form as submitted by the browser.
type LoginForm struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// AuthService drives the signup, login and logout flows against a session.
type AuthService interface {
	Signup(ctx context.Context, sess Session, form SignupForm) (*domain.User, error)
	Login(ctx context.Context, sess Session, form LoginForm) (*domain.User, error)
	Logout(ctx context.Context, sess Session) error
}
