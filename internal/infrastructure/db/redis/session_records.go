package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradepulse/dashboard/internal/core/domain"
)

const sessionKeyPrefix = "session:"

// SessionRecords stores session records as JSON with a Redis TTL equal to the
// record's remaining lifetime.
// Key format: session:<sha256(token)>
type SessionRecords struct {
	client *redis.Client
	now    func() time.Time
}

// NewSessionRecords wraps client. now defaults to time.Now.
func NewSessionRecords(client *redis.Client, now func() time.Time) *SessionRecords {
	if now == nil {
		now = time.Now
	}
	return &SessionRecords{client: client, now: now}
}

func (s *SessionRecords) Save(ctx context.Context, rec *domain.SessionRecord) error {
	ttl := rec.Remaining(s.now())
	if ttl <= 0 {
		return s.Delete(ctx, rec.Key)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	if err := s.client.Set(ctx, s.key(rec.Key), data, ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func (s *SessionRecords) Find(ctx context.Context, key string) (*domain.SessionRecord, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session find: %w", err)
	}

	var rec domain.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}
	// the key TTL and the record expiry can disagree after clock skew
	if rec.Expired(s.now()) {
		return nil, domain.ErrRecordNotFound
	}
	return &rec, nil
}

func (s *SessionRecords) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionRecords) key(key string) string {
	return sessionKeyPrefix + key
}
