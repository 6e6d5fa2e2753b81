// Package credstore persists a browser's credentials: the bearer token rides
// in a strict same-site cookie, the profile and the single expiry live in a
// session record keyed by the token's digest.
package credstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/ports"
)

const (
	DefaultCookieName = "token"
	DefaultTTL        = 3 * time.Hour
)

// Options configure the cookie half of the store.
type Options struct {
	CookieName string
	TTL        time.Duration
	// Secure sets the cookie's Secure flag; on in production.
	Secure bool
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.CookieName == "" {
		o.CookieName = DefaultCookieName
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// CookieStore is a ports.CredentialStore bound to one request.
type CookieStore struct {
	c       echo.Context
	records ports.SessionRecordRepository
	opts    Options

	// token written during this request; the request cookie is stale after a write
	token   string
	written bool
}

var _ ports.CredentialStore = (*CookieStore)(nil)

// New binds a store to c.
func New(c echo.Context, records ports.SessionRecordRepository, opts Options) *CookieStore {
	return &CookieStore{c: c, records: records, opts: opts.withDefaults()}
}

// Key derives the record key for token.
func Key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *CookieStore) WriteToken(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrNoToken
	}

	now := s.opts.Now()
	rec := &domain.SessionRecord{
		Key:       Key(token),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.opts.TTL),
	}
	switch current := s.currentToken(); current {
	case "":
	case token:
		// rewriting the same token keeps its profile
		if existing, err := s.records.Find(ctx, rec.Key); err == nil {
			rec.User = existing.User
		}
	default:
		if err := s.records.Delete(ctx, Key(current)); err != nil {
			return fmt.Errorf("delete previous session record: %w", err)
		}
	}
	if err := s.records.Save(ctx, rec); err != nil {
		return fmt.Errorf("save session record: %w", err)
	}

	s.c.SetCookie(&http.Cookie{
		Name:     s.opts.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  rec.ExpiresAt,
		MaxAge:   int(s.opts.TTL / time.Second),
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	s.token, s.written = token, true
	return nil
}

func (s *CookieStore) ReadToken(ctx context.Context) (string, bool, error) {
	rec, token, err := s.current(ctx)
	if err != nil || rec == nil {
		return "", false, err
	}
	return token, true, nil
}

func (s *CookieStore) ClearToken(ctx context.Context) error {
	var err error
	if token := s.currentToken(); token != "" {
		if derr := s.records.Delete(ctx, Key(token)); derr != nil {
			err = fmt.Errorf("delete session record: %w", derr)
		}
	}

	s.c.SetCookie(&http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	s.token, s.written = "", true
	return err
}

func (s *CookieStore) WriteProfile(ctx context.Context, user *domain.User) error {
	rec, _, err := s.current(ctx)
	if err != nil {
		return err
	}
	if rec == nil {
		return domain.ErrNoToken
	}
	rec.User = user.Clone()
	if err := s.records.Save(ctx, rec); err != nil {
		return fmt.Errorf("save session record: %w", err)
	}
	return nil
}

func (s *CookieStore) ReadProfile(ctx context.Context) (*domain.User, error) {
	rec, _, err := s.current(ctx)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.User.Clone(), nil
}

func (s *CookieStore) ClearProfile(ctx context.Context) error {
	rec, _, err := s.current(ctx)
	if err != nil || rec == nil || rec.User == nil {
		return err
	}
	rec.User = nil
	if err := s.records.Save(ctx, rec); err != nil {
		return fmt.Errorf("save session record: %w", err)
	}
	return nil
}

// current returns the live record and its token, or a nil record when there
// is no token or it has expired.
func (s *CookieStore) current(ctx context.Context) (*domain.SessionRecord, string, error) {
	token := s.currentToken()
	if token == "" {
		return nil, "", nil
	}

	rec, err := s.records.Find(ctx, Key(token))
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("find session record: %w", err)
	}
	if rec.Expired(s.opts.Now()) {
		return nil, "", nil
	}
	return rec, token, nil
}

func (s *CookieStore) currentToken() string {
	if s.written {
		return s.token
	}
	cookie, err := s.c.Cookie(s.opts.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
