// Package session holds the in-memory session state of one browser and the
// only transitions allowed to change it.
//
//	LoggedOut --SetCredentials--> LoggedIn
//	LoggedIn  --Logout----------> LoggedOut
//	*         --Rehydrate-------> LoggedIn | LoggedOut
//
// Every transition mirrors itself into the bound credential store, so the
// durable copy never has to be maintained by callers.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/ports"
)

// Status is the state machine position.
type Status int

const (
	LoggedOut Status = iota
	LoggedIn
)

func (s Status) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

// State is an immutable snapshot of the session.
type State struct {
	User            *domain.User `json:"user"`
	Token           string       `json:"-"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Status derives the machine position from the token.
func (s State) Status() Status {
	if s.Token != "" {
		return LoggedIn
	}
	return LoggedOut
}

// Transition names reported to subscribers.
const (
	TransitionSetCredentials = "set_credentials"
	TransitionLogout         = "logout"
	TransitionRehydrate      = "rehydrate"
)

// Listener observes a completed transition.
type Listener func(transition string, prev, next State)

// Container is the single source of truth for one session.
type Container struct {
	mu         sync.Mutex
	state      State
	store      ports.CredentialStore
	rehydrated bool
	listeners  map[int]Listener
	nextID     int
}

// New returns an empty, logged-out container bound to store. A nil store
// keeps the session purely in memory.
func New(store ports.CredentialStore) *Container {
	return &Container{store: store, listeners: make(map[int]Listener)}
}

// State returns a snapshot of the current session.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshot(c.state)
}

// Status returns LoggedIn or LoggedOut.
func (c *Container) Status() Status {
	return c.State().Status()
}

// User returns a copy of the current user, or nil.
func (c *Container) User() *domain.User {
	return c.State().User
}

// Subscribe registers fn for every future transition and returns a function
// that removes it.
func (c *Container) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// SetCredentials logs the session in and persists token and profile.
// On a storage failure the in-memory state is left as it was.
func (c *Container) SetCredentials(ctx context.Context, user *domain.User, token string) error {
	if user == nil || token == "" {
		return domain.ErrInvalidCredentials
	}

	c.mu.Lock()
	if c.store != nil {
		if err := c.persist(ctx, user, token); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	prev := c.state
	c.state = State{User: user.Clone(), Token: token, IsAuthenticated: true}
	listeners := c.snapshotListeners()
	next := c.state
	c.mu.Unlock()

	notify(listeners, TransitionSetCredentials, prev, next)
	return nil
}

func (c *Container) persist(ctx context.Context, user *domain.User, token string) error {
	if err := c.store.WriteToken(ctx, token); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := c.store.WriteProfile(ctx, user); err != nil {
		// a token without a profile is not a session
		_ = c.store.ClearToken(ctx)
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// Logout always leaves the session logged out and clears durable storage.
// A storage error is returned but does not undo the in-memory reset.
func (c *Container) Logout(ctx context.Context) error {
	c.mu.Lock()
	err := c.clearStore(ctx)
	prev := c.state
	c.state = State{}
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	notify(listeners, TransitionLogout, prev, State{})
	return err
}

// Rehydrate sets the session from what the credential store reported. It may
// run once per container. A token without a profile, or a profile without a
// token, resolves to LoggedOut and wipes the store.
func (c *Container) Rehydrate(ctx context.Context, user *domain.User, token string) error {
	c.mu.Lock()
	if c.rehydrated {
		c.mu.Unlock()
		return domain.ErrAlreadyRehydrated
	}
	c.rehydrated = true

	var err error
	prev := c.state
	if token != "" && user != nil {
		c.state = State{User: user.Clone(), Token: token, IsAuthenticated: true}
	} else {
		c.state = State{}
		if token != "" || user != nil {
			err = c.clearStore(ctx)
		}
	}
	next := c.state
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	notify(listeners, TransitionRehydrate, prev, next)
	return err
}

// Restore reads the bound store and rehydrates from it.
func (c *Container) Restore(ctx context.Context) error {
	if c.store == nil {
		return c.Rehydrate(ctx, nil, "")
	}

	token, ok, err := c.store.ReadToken(ctx)
	if err != nil {
		return errors.Join(fmt.Errorf("read token: %w", err), c.Rehydrate(ctx, nil, ""))
	}
	if !ok {
		token = ""
	}

	user, err := c.store.ReadProfile(ctx)
	if err != nil {
		return errors.Join(fmt.Errorf("read profile: %w", err), c.Rehydrate(ctx, nil, ""))
	}
	return c.Rehydrate(ctx, user, token)
}

// Rehydrated reports whether Rehydrate has run.
func (c *Container) Rehydrated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rehydrated
}

func (c *Container) clearStore(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return errors.Join(c.store.ClearProfile(ctx), c.store.ClearToken(ctx))
}

func (c *Container) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		out = append(out, l)
	}
	return out
}

func notify(listeners []Listener, transition string, prev, next State) {
	prev, next = snapshot(prev), snapshot(next)
	for _, l := range listeners {
		l(transition, prev, next)
	}
}

func snapshot(s State) State {
	s.User = s.User.Clone()
	return s
}
