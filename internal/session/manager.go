package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avdeyev/flightbook/config"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/redis/go-redis/v9"
)

const CookieName = "flightbook_session"

// Session is everything the server keeps about a logged-in visitor.
// The cookie itself only carries the signed session id.
type Session struct {
	UserID    int64     `json:"user_id,omitempty"`
	AdminUser string    `json:"admin_user,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.AdminUser != ""
}

type Manager struct {
	client   *redis.Client
	codec    *securecookie.SecureCookie
	ttl      time.Duration
	remember time.Duration
}

func NewManager(cfg config.RedisConfig, sess config.SessionConfig) *Manager {
	return &Manager{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		codec:    securecookie.New([]byte(sess.Secret), nil),
		ttl:      time.Duration(sess.TTLHours) * time.Hour,
		remember: time.Duration(sess.RememberDays) * 24 * time.Hour,
	}
}

// Issue stores the session in redis and sets the signed cookie on the response.
func (m *Manager) Issue(ctx context.Context, w http.ResponseWriter, sess Session, remember bool) error {
	ttl := m.ttl
	if remember {
		ttl = m.remember
	}
	sess.ExpiresAt = time.Now().Add(ttl)

	id := uuid.NewString()
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := m.client.Set(ctx, sessionKey(id), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	encoded, err := m.codec.Encode(CookieName, id)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Current returns the session for the request, or nil when there is none.
// A tampered or expired cookie is treated as no session.
func (m *Manager) Current(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}

	var id string
	if err := m.codec.Decode(CookieName, cookie.Value, &id); err != nil {
		return nil, nil
	}

	payload, err := m.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, nil
	}
	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		return nil, nil
	}
	return &sess, nil
}

// Clear drops the server-side state and expires the cookie.
func (m *Manager) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if cookie, err := r.Cookie(CookieName); err == nil {
		var id string
		if err := m.codec.Decode(CookieName, cookie.Value, &id); err == nil {
			_ = m.client.Del(ctx, sessionKey(id)).Err()
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func sessionKey(id string) string {
	return "session:" + id
}
