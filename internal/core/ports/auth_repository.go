package ports

import (
	"context"

	"github.com/tradepulse/dashboard/internal/core/domain"
)

// UserAccount is a stored account of the development auth gateway.
type UserAccount struct {
	User         domain.User
	PasswordHash string
}

// UserRepository persists development gateway accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*UserAccount, error)
	Create(ctx context.Context, account *UserAccount) (*UserAccount, error)
}
