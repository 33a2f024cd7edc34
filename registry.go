package auth

import (
	"sort"
	"sync"
	"time"
)

// SessionRecord is the registry entry for a live session, keyed externally by
// the token's jti. Entries are replaced wholesale, never patched.
type SessionRecord struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionInfo pairs a record with its jti for diagnostic snapshots.
type SessionInfo struct {
	TokenID string `json:"token_id"`
	SessionRecord
}

// SessionRegistry is the authoritative in-process store of currently valid
// session identifiers. A signed token whose jti is missing here is dead no
// matter what its signature says.
//
// The registry is strictly per-instance state: it is not persisted and not
// shared across processes. Construct one at startup and inject it wherever
// it is needed; do not treat it as a hidden global.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]SessionRecord
	now      func() time.Time
	logger   Logger
}

// NewSessionRegistry returns an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]SessionRecord),
		now:      time.Now,
		logger:   defLogger{},
	}
}

func (r *SessionRegistry) WithLogger(logger Logger) *SessionRegistry {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithClock overrides the time source used by expiry checks.
func (r *SessionRegistry) WithClock(now func() time.Time) *SessionRegistry {
	if now != nil {
		r.now = now
	}
	return r
}

// Register inserts or overwrites the entry for jti. Last write wins; in
// practice the jti is always fresh from the token service.
func (r *SessionRegistry) Register(jti string, rec SessionRecord) {
	r.mu.Lock()
	r.sessions[jti] = rec
	r.mu.Unlock()

	r.logger.Debug("session registered", "jti", jti, "user_id", rec.UserID, "expires_at", rec.ExpiresAt)
}

// Lookup returns the record for jti if it is present and unexpired. An
// expired entry is evicted on the spot and reported as absent, so a stale
// session is never honored even before the next sweep runs.
func (r *SessionRegistry) Lookup(jti string) (SessionRecord, bool) {
	r.mu.RLock()
	rec, ok := r.sessions[jti]
	r.mu.RUnlock()

	if !ok {
		return SessionRecord{}, false
	}

	if rec.ExpiresAt.After(r.now()) {
		return rec, true
	}

	// Evict under the write lock, re-checking in case a concurrent Register
	// replaced the entry in the window between the two lock acquisitions.
	r.mu.Lock()
	if cur, still := r.sessions[jti]; still && !cur.ExpiresAt.After(r.now()) {
		delete(r.sessions, jti)
	}
	r.mu.Unlock()

	r.logger.Debug("session lookup hit expired entry", "jti", jti)
	return SessionRecord{}, false
}

// Revoke removes the entry for jti and reports whether one was present.
// Revoking an unknown or already-revoked jti is a no-op, not an error.
func (r *SessionRegistry) Revoke(jti string) bool {
	r.mu.Lock()
	_, ok := r.sessions[jti]
	if ok {
		delete(r.sessions, jti)
	}
	r.mu.Unlock()

	if ok {
		r.logger.Debug("session revoked", "jti", jti)
	}
	return ok
}

// Sweep evicts every entry whose expiry is at or before now and returns the
// eviction count. Run it on a timer to bound memory growth from sessions
// that expire without an explicit logout.
func (r *SessionRegistry) Sweep(now time.Time) int {
	r.mu.Lock()
	evicted := 0
	for jti, rec := range r.sessions {
		if !rec.ExpiresAt.After(now) {
			delete(r.sessions, jti)
			evicted++
		}
	}
	r.mu.Unlock()

	return evicted
}

// Size returns the number of registered sessions, expired stragglers
// included. Diagnostic only.
func (r *SessionRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Snapshot returns the registered sessions ordered by issue time, newest
// first. It exposes jtis and timestamps but never raw tokens; treat it as
// debug surface, not a security control.
func (r *SessionRegistry) Snapshot() []SessionInfo {
	r.mu.RLock()
	out := make([]SessionInfo, 0, len(r.sessions))
	for jti, rec := range r.sessions {
		out = append(out, SessionInfo{TokenID: jti, SessionRecord: rec})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].IssuedAt.After(out[j].IssuedAt)
	})
	return out
}
