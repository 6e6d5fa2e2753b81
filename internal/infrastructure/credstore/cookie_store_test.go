package credstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/infrastructure/db/memory"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// newRequest builds an echo context carrying the cookies of a previous response.
func newRequest(prev *httptest.ResponseRecorder) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if prev != nil {
		for _, c := range prev.Result().Cookies() {
			if c.MaxAge >= 0 {
				req.AddCookie(c)
			}
		}
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func user() *domain.User {
	return &domain.User{ID: "1", Name: "A", Email: "a@b.com", Role: domain.RoleUser}
}

func TestWriteToken_SetsStrictCookie(t *testing.T) {
	clk := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c, rec := newRequest(nil)
	store := New(c, memory.NewSessionRecords(clk.Now), Options{Secure: true, Now: clk.Now})

	require.NoError(t, store.WriteToken(context.Background(), "t1"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, "token", ck.Name)
	assert.Equal(t, "t1", ck.Value)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	assert.True(t, ck.Secure)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, 3*60*60, ck.MaxAge)
	assert.True(t, ck.Expires.Equal(clk.now.Add(3*time.Hour)))
}

func TestTokenAndProfile_SurviveNextRequest(t *testing.T) {
	clk := &clock{now: time.Now()}
	records := memory.NewSessionRecords(clk.Now)
	ctx := context.Background()

	c1, rec1 := newRequest(nil)
	first := New(c1, records, Options{Now: clk.Now})
	require.NoError(t, first.WriteToken(ctx, "t1"))
	require.NoError(t, first.WriteProfile(ctx, user()))

	c2, _ := newRequest(rec1)
	second := New(c2, records, Options{Now: clk.Now})

	token, ok, err := second.ReadToken(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", token)

	got, err := second.ReadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, user(), got)
}

func TestReadToken_AbsentAfterExpiry(t *testing.T) {
	clk := &clock{now: time.Now()}
	records := memory.NewSessionRecords(clk.Now)
	ctx := context.Background()

	c1, rec1 := newRequest(nil)
	require.NoError(t, New(c1, records, Options{Now: clk.Now}).WriteToken(ctx, "t1"))

	clk.Advance(3*time.Hour - time.Second)
	c2, _ := newRequest(rec1)
	_, ok, err := New(c2, records, Options{Now: clk.Now}).ReadToken(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "token must still be readable just before expiry")

	clk.Advance(time.Second)
	c3, _ := newRequest(rec1)
	store := New(c3, records, Options{Now: clk.Now})
	_, ok, err = store.ReadToken(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	profile, err := store.ReadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestReadToken_NeverSet(t *testing.T) {
	c, _ := newRequest(nil)
	store := New(c, memory.NewSessionRecords(nil), Options{})

	token, ok, err := store.ReadToken(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, token)
}

func TestReadToken_ForgedCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "made-up"})
	c := e.NewContext(req, httptest.NewRecorder())

	_, ok, err := New(c, memory.NewSessionRecords(nil), Options{}).ReadToken(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteProfile_RequiresToken(t *testing.T) {
	c, _ := newRequest(nil)
	store := New(c, memory.NewSessionRecords(nil), Options{})

	err := store.WriteProfile(context.Background(), user())
	assert.ErrorIs(t, err, domain.ErrNoToken)
}

func TestClearToken_TakesProfileWithIt(t *testing.T) {
	records := memory.NewSessionRecords(nil)
	ctx := context.Background()

	c1, rec1 := newRequest(nil)
	first := New(c1, records, Options{})
	require.NoError(t, first.WriteToken(ctx, "t1"))
	require.NoError(t, first.WriteProfile(ctx, user()))

	c2, rec2 := newRequest(rec1)
	second := New(c2, records, Options{})
	require.NoError(t, second.ClearToken(ctx))

	assert.Equal(t, 0, records.Len())
	cleared := rec2.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	_, ok, err := second.ReadToken(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// clearing twice is fine
	require.NoError(t, second.ClearToken(ctx))
}

func TestClearProfile_KeepsToken(t *testing.T) {
	c, _ := newRequest(nil)
	store := New(c, memory.NewSessionRecords(nil), Options{})
	ctx := context.Background()

	require.NoError(t, store.WriteToken(ctx, "t1"))
	require.NoError(t, store.WriteProfile(ctx, user()))
	require.NoError(t, store.ClearProfile(ctx))

	_, ok, err := store.ReadToken(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	profile, err := store.ReadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestWriteToken_Idempotent(t *testing.T) {
	records := memory.NewSessionRecords(nil)
	c, _ := newRequest(nil)
	store := New(c, records, Options{})
	ctx := context.Background()

	require.NoError(t, store.WriteToken(ctx, "t1"))
	require.NoError(t, store.WriteProfile(ctx, user()))
	require.NoError(t, store.WriteToken(ctx, "t1"))

	profile, err := store.ReadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, user(), profile)
	assert.Equal(t, 1, records.Len())
}

func TestWriteToken_ReplacesPreviousRecord(t *testing.T) {
	records := memory.NewSessionRecords(nil)
	c, _ := newRequest(nil)
	store := New(c, records, Options{})
	ctx := context.Background()

	require.NoError(t, store.WriteToken(ctx, "t1"))
	require.NoError(t, store.WriteToken(ctx, "t2"))
	assert.Equal(t, 1, records.Len())

	_, err := records.Find(ctx, Key("t1"))
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}
