// Package memory holds in-process repositories for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/ports"
)

// sweepInterval bounds how often Save scans for expired records.
const sweepInterval = time.Minute

// SessionRecords keeps session records in a map. Expired records are
// invisible to Find; Save evicts them at most once per sweepInterval.
type SessionRecords struct {
	mu        sync.Mutex
	records   map[string]domain.SessionRecord
	now       func() time.Time
	nextSweep time.Time
}

var _ ports.SessionRecordRepository = (*SessionRecords)(nil)

// NewSessionRecords returns an empty repository. now defaults to time.Now.
func NewSessionRecords(now func() time.Time) *SessionRecords {
	if now == nil {
		now = time.Now
	}
	return &SessionRecords{records: make(map[string]domain.SessionRecord), now: now}
}

func (r *SessionRecords) Save(_ context.Context, rec *domain.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if now := r.now(); !now.Before(r.nextSweep) {
		r.sweep(now)
		r.nextSweep = now.Add(sweepInterval)
	}
	cp := *rec
	cp.User = rec.User.Clone()
	r.records[rec.Key] = cp
	return nil
}

func (r *SessionRecords) sweep(now time.Time) {
	for key, rec := range r.records {
		if rec.Expired(now) {
			delete(r.records, key)
		}
	}
}

func (r *SessionRecords) Find(_ context.Context, key string) (*domain.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[key]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	if rec.Expired(r.now()) {
		delete(r.records, key)
		return nil, domain.ErrRecordNotFound
	}
	rec.User = rec.User.Clone()
	return &rec, nil
}

func (r *SessionRecords) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, key)
	return nil
}

// Len reports the number of stored records, including expired ones not yet swept.
func (r *SessionRecords) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
