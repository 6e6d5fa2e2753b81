package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/ports"
)

// Users keeps development gateway accounts keyed by lower-cased email.
type Users struct {
	mu      sync.RWMutex
	byEmail map[string]ports.UserAccount
}

var _ ports.UserRepository = (*Users)(nil)

func NewUsers() *Users {
	return &Users{byEmail: make(map[string]ports.UserAccount)}
}

// Create assigns a fresh UUID and stores the account.
func (r *Users) Create(_ context.Context, account *ports.UserAccount) (*ports.UserAccount, error) {
	key := strings.ToLower(account.User.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[key]; ok {
		return nil, domain.ErrUserExists
	}
	stored := *account
	stored.User.ID = domain.UserID(uuid.NewString())
	stored.User.Email = key
	r.byEmail[key] = stored

	out := stored
	return &out, nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (*ports.UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &acc, nil
}
