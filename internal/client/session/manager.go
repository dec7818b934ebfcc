// Package session owns the client's current credential and identity.
// It is the single authority on "is the user logged in, and as whom".
package session

import (
	"errors"
	"log"
	"sync"
	"time"

	"flipmart/internal/client/localstore"
	"flipmart/internal/platform/token"
)

const credentialKey = "token"

var ErrInvalidCredential = errors.New("session: invalid credential")

// Subscriber is notified after every identity transition. prev/cur are
// nil for the anonymous state.
type Subscriber func(prev, cur *token.Identity)

// Manager decodes and validates the bearer credential locally (no server
// round-trip) and tracks the resulting identity. An invalid or expired
// credential silently resolves to anonymous; only the explicit login HTTP
// call surfaces authentication failures to the user.
type Manager struct {
	store *localstore.Store
	now   func() time.Time

	mu         sync.Mutex
	credential string
	identity   *token.Identity
	ready      bool
	subs       []Subscriber
}

func NewManager(store *localstore.Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// NewManagerWithClock is useful for tests.
func NewManagerWithClock(store *localstore.Store, now func() time.Time) *Manager {
	m := NewManager(store)
	if now != nil {
		m.now = now
	}
	return m
}

// Subscribe registers fn for identity transitions. Register before
// Bootstrap so the restored-login transition is observed too.
func (m *Manager) Subscribe(fn Subscriber) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	m.mu.Unlock()
}

// Bootstrap restores any persisted credential. It sets the ready flag
// exactly once regardless of outcome and is a no-op when called again.
func (m *Manager) Bootstrap() {
	m.mu.Lock()
	if m.ready {
		m.mu.Unlock()
		return
	}
	m.ready = true
	m.mu.Unlock()

	saved, ok, err := m.store.Get(credentialKey)
	if err != nil {
		log.Printf("[session] credential read failed: %v (staying anonymous)", err)
		return
	}
	if !ok {
		return
	}
	if err := m.adopt(saved); err != nil {
		// malformed or expired: clear silently, stay anonymous
		m.clear()
	}
}

// Login decodes and validates the credential immediately. On success the
// credential is persisted and subscribers are signalled. On failure the
// manager behaves exactly like Logout and reports the error.
func (m *Manager) Login(credential string) error {
	if err := m.adopt(credential); err != nil {
		m.Logout()
		return err
	}
	return nil
}

// Logout clears the persisted credential and identity and signals
// subscribers. Pure local operation, no remote call.
func (m *Manager) Logout() {
	m.clear()
}

// Ready reports whether Bootstrap has run.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// Identity returns the current identity; ok is false when anonymous.
func (m *Manager) Identity() (token.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return token.Identity{}, false
	}
	return *m.identity, true
}

// Credential returns the current raw credential; ok is false when anonymous.
func (m *Manager) Credential() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return "", false
	}
	return m.credential, true
}

// adopt decodes, validates and installs the credential.
func (m *Manager) adopt(credential string) error {
	ident, err := token.DecodeUnverified(credential, m.now())
	if err != nil {
		return ErrInvalidCredential
	}

	if err := m.store.Set(credentialKey, credential); err != nil {
		log.Printf("[session] credential persist failed: %v (in-memory only)", err)
	}

	m.mu.Lock()
	prev := m.identity
	m.credential = credential
	m.identity = &ident
	subs := append([]Subscriber(nil), m.subs...)
	m.mu.Unlock()

	cur := &ident
	for _, fn := range subs {
		fn(prev, cur)
	}
	return nil
}

func (m *Manager) clear() {
	if err := m.store.Remove(credentialKey); err != nil {
		log.Printf("[session] credential remove failed: %v", err)
	}

	m.mu.Lock()
	prev := m.identity
	m.credential = ""
	m.identity = nil
	subs := append([]Subscriber(nil), m.subs...)
	m.mu.Unlock()

	if prev == nil {
		return
	}
	for _, fn := range subs {
		fn(prev, nil)
	}
}
