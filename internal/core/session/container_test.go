package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradepulse/dashboard/internal/core/domain"
)

type fakeStore struct {
	token   string
	user    *domain.User
	failOn  string
	cleared int
}

func (f *fakeStore) fail(op string) error {
	if f.failOn == op {
		return errors.New(op + " failed")
	}
	return nil
}

func (f *fakeStore) WriteToken(_ context.Context, token string) error {
	if err := f.fail("WriteToken"); err != nil {
		return err
	}
	f.token = token
	return nil
}

func (f *fakeStore) ReadToken(context.Context) (string, bool, error) {
	if err := f.fail("ReadToken"); err != nil {
		return "", false, err
	}
	return f.token, f.token != "", nil
}

func (f *fakeStore) ClearToken(context.Context) error {
	f.cleared++
	f.token = ""
	f.user = nil
	return f.fail("ClearToken")
}

func (f *fakeStore) WriteProfile(_ context.Context, user *domain.User) error {
	if err := f.fail("WriteProfile"); err != nil {
		return err
	}
	f.user = user.Clone()
	return nil
}

func (f *fakeStore) ReadProfile(context.Context) (*domain.User, error) {
	return f.user.Clone(), nil
}

func (f *fakeStore) ClearProfile(context.Context) error {
	f.user = nil
	return nil
}

func alice() *domain.User {
	return &domain.User{ID: "1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser}
}

func TestSetCredentials_RoundTrip(t *testing.T) {
	store := &fakeStore{}
	c := New(store)

	require.NoError(t, c.SetCredentials(context.Background(), alice(), "t1"))

	st := c.State()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "t1", st.Token)
	assert.Equal(t, alice(), st.User)
	assert.Equal(t, LoggedIn, c.Status())

	assert.Equal(t, "t1", store.token)
	assert.Equal(t, alice(), store.user)
}

func TestSetCredentials_RejectsPartialInput(t *testing.T) {
	c := New(&fakeStore{})

	assert.ErrorIs(t, c.SetCredentials(context.Background(), nil, "t1"), domain.ErrInvalidCredentials)
	assert.ErrorIs(t, c.SetCredentials(context.Background(), alice(), ""), domain.ErrInvalidCredentials)
	assert.Equal(t, LoggedOut, c.Status())
}

func TestSetCredentials_StorageFailureKeepsState(t *testing.T) {
	store := &fakeStore{failOn: "WriteProfile"}
	c := New(store)

	err := c.SetCredentials(context.Background(), alice(), "t1")
	require.Error(t, err)
	assert.Equal(t, LoggedOut, c.Status())
	assert.Empty(t, store.token, "token must not survive without a profile")
}

func TestLogout_AlwaysLogsOut(t *testing.T) {
	ctx := context.Background()

	fresh := New(&fakeStore{})
	require.NoError(t, fresh.Logout(ctx))
	assert.Equal(t, State{}, fresh.State())

	store := &fakeStore{}
	c := New(store)
	require.NoError(t, c.SetCredentials(ctx, alice(), "t1"))
	require.NoError(t, c.Logout(ctx))

	st := c.State()
	assert.False(t, st.IsAuthenticated)
	assert.Nil(t, st.User)
	assert.Empty(t, st.Token)
	assert.Empty(t, store.token)
	assert.Nil(t, store.user)
}

func TestLogout_StorageErrorStillResets(t *testing.T) {
	store := &fakeStore{}
	c := New(store)
	require.NoError(t, c.SetCredentials(context.Background(), alice(), "t1"))

	store.failOn = "ClearToken"
	err := c.Logout(context.Background())
	require.Error(t, err)
	assert.Equal(t, LoggedOut, c.Status())
}

func TestRehydrate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		user        *domain.User
		token       string
		want        Status
		wantCleared bool
	}{
		{name: "token and profile", user: alice(), token: "t1", want: LoggedIn},
		{name: "token without profile", token: "t1", want: LoggedOut, wantCleared: true},
		{name: "profile without token", user: alice(), want: LoggedOut, wantCleared: true},
		{name: "nothing stored", want: LoggedOut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{token: tt.token, user: tt.user}
			c := New(store)

			require.NoError(t, c.Rehydrate(ctx, tt.user, tt.token))
			assert.Equal(t, tt.want, c.Status())
			st := c.State()
			if tt.want == LoggedOut {
				assert.Nil(t, st.User)
				assert.Empty(t, st.Token)
			}
			assert.Equal(t, tt.wantCleared, store.cleared > 0)
		})
	}
}

func TestRehydrate_OnlyOnce(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Rehydrate(context.Background(), alice(), "t1"))
	assert.ErrorIs(t, c.Rehydrate(context.Background(), nil, ""), domain.ErrAlreadyRehydrated)
	assert.Equal(t, LoggedIn, c.Status())
	assert.True(t, c.Rehydrated())
}

func TestRestore_TokenWithoutProfile(t *testing.T) {
	store := &fakeStore{token: "t1"}
	c := New(store)

	require.NoError(t, c.Restore(context.Background()))
	assert.Equal(t, LoggedOut, c.Status())
	assert.Empty(t, store.token)
}

func TestRestore_ReadFailureLogsOut(t *testing.T) {
	store := &fakeStore{token: "t1", user: alice(), failOn: "ReadToken"}
	c := New(store)

	require.Error(t, c.Restore(context.Background()))
	assert.Equal(t, LoggedOut, c.Status())
	assert.True(t, c.Rehydrated())
}

func TestSubscribe(t *testing.T) {
	c := New(nil)

	var seen []string
	var last State
	unsubscribe := c.Subscribe(func(transition string, prev, next State) {
		seen = append(seen, transition)
		last = next
	})

	ctx := context.Background()
	require.NoError(t, c.SetCredentials(ctx, alice(), "t1"))
	assert.True(t, last.IsAuthenticated)

	require.NoError(t, c.Logout(ctx))
	assert.False(t, last.IsAuthenticated)

	unsubscribe()
	require.NoError(t, c.SetCredentials(ctx, alice(), "t2"))

	assert.Equal(t, []string{TransitionSetCredentials, TransitionLogout}, seen)
}

func TestState_IsACopy(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.SetCredentials(context.Background(), alice(), "t1"))

	st := c.State()
	st.User.Name = "Mallory"
	assert.Equal(t, "Alice", c.User().Name)
}
