package ports

import (
	"context"

	"github.com/tradepulse/dashboard/internal/core/domain"
)

// CredentialStore persists one browser's bearer token and profile.
// ReadToken reports ok=false for tokens that were never written or have expired.
type CredentialStore interface {
	WriteToken(ctx context.Context, token string) error
	ReadToken(ctx context.Context) (token string, ok bool, err error)
	ClearToken(ctx context.Context) error

	WriteProfile(ctx context.Context, user *domain.User) error
	ReadProfile(ctx context.Context) (*domain.User, error)
	ClearProfile(ctx context.Context) error
}

// SessionRecordRepository stores session records keyed by token digest.
// Find returns domain.ErrRecordNotFound for missing or expired records.
type SessionRecordRepository interface {
	Save(ctx context.Context, rec *domain.SessionRecord) error
	Find(ctx context.Context, key string) (*domain.SessionRecord, error)
	Delete(ctx context.Context, key string) error
}
