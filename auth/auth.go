package auth

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// The browser only carries a signed session id; everything else lives in
// memory, so restarting the portal logs everybody out.

type ctxKey string

const (
	cookieName    = "portal_session"
	sidValueKey   = "sid"
	sessionCtxKey = ctxKey("session")
)

// DevSecret is used when no SESSION_SECRET is configured.
const DevSecret = "devsessionsecret"

// Store maps session ids to in-memory sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cookies  *sessions.CookieStore
}

// NewStore creates an empty store signing its cookie with secret.
func NewStore(secret string) *Store {
	if secret == "" {
		secret = DevSecret
	}
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0, // browser session
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{sessions: make(map[string]*Session), cookies: cs}
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Load returns the session bound to the request's cookie, creating one (and
// setting the cookie) when there is none or it is unknown.
func (s *Store) Load(w http.ResponseWriter, r *http.Request) *Session {
	cs, err := s.cookies.Get(r, cookieName)
	if err != nil {
		// Tampered or signed with an old secret: start over.
		log.Printf("session cookie rejected: %v", err)
	}
	if sid, ok := cs.Values[sidValueKey].(string); ok && sid != "" {
		s.mu.RLock()
		sess, found := s.sessions[sid]
		s.mu.RUnlock()
		if found {
			sess.touch()
			return sess
		}
	}
	sess := newSession(uuid.NewString())
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	cs.Values[sidValueKey] = sess.ID
	if err := cs.Save(r, w); err != nil {
		log.Printf("save session cookie: %v", err)
	}
	return sess
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (s *Store) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.lastSeen().Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Middleware attaches the request's session to its context.
func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.Load(w, r)
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// WithSession stores sess in ctx.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, sess)
}

// FromContext extracts the session, nil when the middleware did not run.
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionCtxKey).(*Session)
	return sess
}

// LoggedIn reports whether the request's session passed login.
func LoggedIn(r *http.Request) bool {
	sess := FromContext(r.Context())
	return sess != nil && sess.LoggedIn()
}

// RequireAuth redirects to /login if not authenticated (HTML) or returns 401 JSON.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !LoggedIn(r) {
			accept := r.Header.Get("Accept")
			if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
