package sessions

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

const (
	sessionCookieName = "carestore-session"

	browserIDSessionKey = "browserID"
)

// SessionStore keeps the only server-side identity this storefront has:
// an opaque browser ID that partitions the persisted cart, wishlist and
// prescriptions.
type SessionStore interface {
	GetBrowserID(r *http.Request) string
	EnsureBrowserID(w http.ResponseWriter, r *http.Request) (string, error)
	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(365 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		// A cookie signed with rotated keys decodes as a fresh session.
		log.Debug().Err(err).Msg("CookieSessionStore.getSession: discarding unreadable session")
	}
	return session
}

func (c *CookieSessionStore) GetBrowserID(r *http.Request) string {
	session := c.getSession(r)
	if session == nil {
		return ""
	}
	id, ok := session.Values[browserIDSessionKey].(string)
	if !ok {
		return ""
	}
	return id
}

func (c *CookieSessionStore) EnsureBrowserID(w http.ResponseWriter, r *http.Request) (string, error) {
	session := c.getSession(r)
	if id, ok := session.Values[browserIDSessionKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	session.Values[browserIDSessionKey] = id
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
