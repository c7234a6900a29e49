package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/internhub/portal-client/internal/core/domain"
	"github.com/internhub/portal-client/internal/core/ports"
)

// SessionManager is the single source of truth for "who is logged in". It
// mediates between the auth facade and the persistent store, and guarantees
// that the store is written before the in-memory session becomes visible.
type SessionManager struct {
	auth  ports.AuthAPI
	store ports.KeyValueStore
	log   zerolog.Logger

	mu      sync.RWMutex
	session domain.Session
	busy    bool
}

func NewSessionManager(auth ports.AuthAPI, store ports.KeyValueStore, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		auth:  auth,
		store: store,
		log:   log.With().Str("component", "session").Logger(),
	}
}

// Rehydrate restores the session from the store without touching the
// network. Partial or unparseable data is purged and the session stays
// anonymous; the failure is never surfaced because "corrupt store" must look
// exactly like "never logged in".
func (m *SessionManager) Rehydrate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	// The legacy key is never read back; drop it whenever we see the store.
	_ = m.store.Delete(ports.StorageKeyLegacy)

	cred, okCred, err := m.store.Get(ports.StorageKeyCredential)
	if err != nil {
		m.log.Warn().Err(err).Msg("rehydrate: credential read failed")
		m.purgeLocked()
		return
	}
	raw, okUser, err := m.store.Get(ports.StorageKeyUser)
	if err != nil {
		m.log.Warn().Err(err).Msg("rehydrate: user snapshot read failed")
		m.purgeLocked()
		return
	}
	if !okCred || !okUser || len(cred) == 0 {
		m.purgeLocked()
		return
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		m.log.Warn().
			Err(domain.WrapError(domain.CodeStorageCorrupt, "session snapshot is not valid JSON", err)).
			Msg("rehydrate: purging corrupt snapshot")
		m.purgeLocked()
		return
	}
	if err := user.Validate(); err != nil {
		m.log.Warn().Err(err).Msg("rehydrate: purging inconsistent snapshot")
		m.purgeLocked()
		return
	}

	m.session = domain.Session{User: &user, Credential: string(cred)}
	m.log.Debug().Str("username", user.Username).Msg("session restored from store")
}

// Login signs in and transitions the session to AUTHENTICATED. The store is
// written before the in-memory session; any failure leaves both empty.
func (m *SessionManager) Login(ctx context.Context, identifier, secret string) (domain.Session, error) {
	if err := m.begin(); err != nil {
		return domain.Session{}, err
	}
	defer m.end()

	res, err := m.auth.SignIn(ctx, identifier, secret)
	if err != nil {
		m.reset()
		return domain.Session{}, err
	}
	return m.commit(res.Token, res.User)
}

// Register signs up and, on success, immediately logs in with the same
// credentials so a successful registration always yields an authenticated
// session. On failure the session is unchanged.
func (m *SessionManager) Register(ctx context.Context, payload ports.RegisterPayload) (domain.Session, error) {
	if err := m.begin(); err != nil {
		return domain.Session{}, err
	}
	defer m.end()

	if _, err := m.auth.SignUp(ctx, payload); err != nil {
		return domain.Session{}, err
	}

	res, err := m.auth.SignIn(ctx, payload.Username, payload.Password)
	if err != nil {
		m.reset()
		return domain.Session{}, err
	}
	return m.commit(res.Token, res.User)
}

// Logout clears the store and the in-memory session. Idempotent.
func (m *SessionManager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.Authenticated() {
		m.log.Debug().Str("username", m.session.User.Username).Msg("logged out")
	}
	m.purgeLocked()
}

// ForceLogout is the unauthorized-response transition: same cleanup as
// Logout, reached without user action. Wire it as the transport's
// on-unauthorized hook.
func (m *SessionManager) ForceLogout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.Authenticated() {
		m.log.Info().Msg("session rejected by server, dropping credentials")
	}
	m.purgeLocked()
}

// Current returns a read-only snapshot of the session.
func (m *SessionManager) Current() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Clone()
}

// State reports which of the two machine states the session is in.
func (m *SessionManager) State() domain.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.State()
}

// commit persists the credential and snapshot, then publishes the in-memory
// session. Store first: a failure mid-way purges everything so memory and
// store never disagree past this operation.
func (m *SessionManager) commit(token string, user domain.User) (domain.Session, error) {
	snapshot, err := json.Marshal(&user)
	if err != nil {
		m.reset()
		return domain.Session{}, domain.WrapError(domain.CodeStorage, "failed to encode session snapshot", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Put(ports.StorageKeyCredential, []byte(token)); err != nil {
		m.purgeLocked()
		return domain.Session{}, domain.WrapError(domain.CodeStorage, "failed to persist credential", err)
	}
	if err := m.store.Put(ports.StorageKeyUser, snapshot); err != nil {
		m.purgeLocked()
		return domain.Session{}, domain.WrapError(domain.CodeStorage, "failed to persist session snapshot", err)
	}

	m.session = domain.Session{User: user.Clone(), Credential: token}
	m.log.Debug().Str("username", user.Username).Str("role", string(user.Role)).Msg("session established")
	return m.session.Clone(), nil
}

// reset purges storage and memory after a failed attempt so no partial state
// survives.
func (m *SessionManager) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()
}

func (m *SessionManager) purgeLocked() {
	_ = m.store.Delete(ports.StorageKeyCredential)
	_ = m.store.Delete(ports.StorageKeyUser)
	_ = m.store.Delete(ports.StorageKeyLegacy)
	m.session = domain.Session{}
}

// begin/end implement the in-flight guard: overlapping Login/Register calls
// fail fast instead of racing each other.
func (m *SessionManager) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return domain.ErrOperationInFlight
	}
	m.busy = true
	return nil
}

func (m *SessionManager) end() {
	m.mu.Lock()
	m.busy = false
	m.mu.Unlock()
}
