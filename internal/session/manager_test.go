package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avdeyev/flightbook/config"
	"github.com/stretchr/testify/assert"
)

func newTestManager() *Manager {
	return NewManager(
		config.RedisConfig{Addr: "localhost:6379"},
		config.SessionConfig{Secret: "0123456789abcdef0123456789abcdef", TTLHours: 2, RememberDays: 30},
	)
}

func TestSession_IsAdmin(t *testing.T) {
	var none *Session
	assert.False(t, none.IsAdmin())
	assert.False(t, (&Session{UserID: 5}).IsAdmin())
	assert.True(t, (&Session{AdminUser: "admin"}).IsAdmin())
}

func TestManager_Current_NoCookie(t *testing.T) {
	m := newTestManager()
	req := httptest.NewRequest(http.MethodGet, "/home", nil)

	sess, err := m.Current(context.Background(), req)
	assert.NoError(t, err)
	assert.Nil(t, sess)
}

func TestManager_Current_TamperedCookie(t *testing.T) {
	m := newTestManager()
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-signed-value"})

	sess, err := m.Current(context.Background(), req)
	assert.NoError(t, err)
	assert.Nil(t, sess)
}

func TestManager_Current_CookieSignedWithDifferentSecret(t *testing.T) {
	other := NewManager(
		config.RedisConfig{Addr: "localhost:6379"},
		config.SessionConfig{Secret: "ffffffffffffffffffffffffffffffff", TTLHours: 2, RememberDays: 30},
	)
	encoded, err := other.codec.Encode(CookieName, "some-session-id")
	assert.NoError(t, err)

	m := newTestManager()
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: encoded})

	sess, err := m.Current(context.Background(), req)
	assert.NoError(t, err)
	assert.Nil(t, sess)
}

func TestManager_Clear_ExpiresCookie(t *testing.T) {
	m := newTestManager()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)

	assert.NoError(t, m.Clear(context.Background(), w, req))

	cookies := w.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}
