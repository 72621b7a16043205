// Package session owns the application's identity state: the logged-in
// user id, the guest flag, and the one-time notice flag. All mutation goes
// through the Manager, which writes through to a Store and notifies
// subscribers on every change.
package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mkravets/pantrypal/internal/models"
)

// Store keys. Absence of a key means the flag is inactive.
const (
	keyUserID     = "userId"
	keyGuestMode  = "guestMode"
	keyNoticeSeen = "noticeSeen"

	flagSet = "1"
)

// Manager is the single owned session object. It rehydrates from the Store
// at construction and keeps serving from memory if the Store fails later.
type Manager struct {
	mu    sync.Mutex
	state models.Session
	store Store
	subs  []func(models.Session)
	log   *zap.Logger
}

// NewManager rehydrates session state from store. store must not be nil;
// use NewMemStore when durable storage is unavailable.
func NewManager(store Store, log *zap.Logger) *Manager {
	m := &Manager{store: store, log: log}
	if id, ok := store.Get(keyUserID); ok {
		m.state.UserID = id
	}
	if v, ok := store.Get(keyGuestMode); ok && v == flagSet {
		m.state.Guest = true
	}
	if v, ok := store.Get(keyNoticeSeen); ok && v == flagSet {
		m.state.NoticeSeen = true
	}
	return m
}

// State returns a copy of the current session.
func (m *Manager) State() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// UserID returns the current user id, empty when logged out.
func (m *Manager) UserID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.UserID
}

// IsGuest reports whether guest mode is active.
func (m *Manager) IsGuest() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Guest
}

// Subscribe registers fn to be called with the new state after every
// mutation. Callbacks run synchronously on the mutating goroutine.
func (m *Manager) Subscribe(fn func(models.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Login sets the user id and clears the guest flag.
func (m *Manager) Login(id string) {
	m.mutate(func(s *models.Session) {
		s.UserID = id
		s.Guest = false
	})
}

// Logout clears both the user id and the guest flag.
func (m *Manager) Logout() {
	m.mutate(func(s *models.Session) {
		s.UserID = ""
		s.Guest = false
	})
}

// EnterGuest turns on read-only guest browsing without touching the user id.
func (m *Manager) EnterGuest() {
	m.mutate(func(s *models.Session) { s.Guest = true })
}

// ExitGuest turns off guest browsing. Calling it when guest mode is already
// off is a no-op.
func (m *Manager) ExitGuest() {
	m.mutate(func(s *models.Session) { s.Guest = false })
}

// MarkNoticeSeen records that the informational notice was dismissed.
func (m *Manager) MarkNoticeSeen() {
	m.mutate(func(s *models.Session) { s.NoticeSeen = true })
}

// mutate applies fn, persists the result, and notifies subscribers.
// Store failures are logged and swallowed: the in-memory state stays
// authoritative for the rest of the process.
func (m *Manager) mutate(fn func(*models.Session)) {
	m.mu.Lock()
	fn(&m.state)
	m.persist()
	state := m.state
	subs := make([]func(models.Session), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

// persist writes the current state through to the store; callers hold m.mu.
func (m *Manager) persist() {
	var err error
	if m.state.UserID != "" {
		err = m.store.Set(keyUserID, m.state.UserID)
	} else {
		err = m.store.Delete(keyUserID)
	}
	if e := m.persistFlag(keyGuestMode, m.state.Guest); err == nil {
		err = e
	}
	if e := m.persistFlag(keyNoticeSeen, m.state.NoticeSeen); err == nil {
		err = e
	}
	if err != nil && m.log != nil {
		m.log.Warn("session state not persisted", zap.Error(err))
	}
}

func (m *Manager) persistFlag(key string, on bool) error {
	if on {
		return m.store.Set(key, flagSet)
	}
	return m.store.Delete(key)
}
