package client

import (
	"slices"
	"sync"
)

// RoleSuperAdmin is the role allowed to manage roles and assignments.
const RoleSuperAdmin = "SuperAdmin"

// State is a snapshot of the client side authentication state.
type State struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// Authenticated reports whether the state carries an access token.
func (s State) Authenticated() bool {
	return s.AccessToken != ""
}

// Session holds the authentication state of one client and notifies subscribers on change.
// The permission helpers are for display decisions only, the server enforces access.
type Session struct {
	mu     sync.RWMutex
	state  State
	nextID int
	subs   map[int]func(State)
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{subs: map[int]func(State){}}
}

// Current returns the current state.
func (s *Session) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// Replace sets a new state and notifies all subscribers.
func (s *Session) Replace(state State) {
	s.mu.Lock()
	s.state = state
	subs := s.subscribers()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

// Clear drops the state, e.g. after logout or a rejected token.
func (s *Session) Clear() {
	s.Replace(State{})
}

// Subscribe registers fn for state changes. The returned func removes the subscription.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.subs, id)
	}
}

// subscribers must be called with the lock held.
func (s *Session) subscribers() []func(State) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	out := make([]func(State), 0, len(ids))
	for _, id := range ids {
		out = append(out, s.subs[id])
	}

	return out
}

func (s *Session) permissions() []string {
	st := s.Current()
	if st.User == nil {
		return nil
	}

	return st.User.Permissions
}

// HasPermission reports whether the signed in user holds key.
func (s *Session) HasPermission(key string) bool {
	return slices.Contains(s.permissions(), key)
}

// HasAnyPermission reports whether the user holds at least one of keys.
func (s *Session) HasAnyPermission(keys ...string) bool {
	held := s.permissions()

	return slices.ContainsFunc(keys, func(k string) bool { return slices.Contains(held, k) })
}

// HasAllPermissions reports whether the user holds every one of keys.
func (s *Session) HasAllPermissions(keys ...string) bool {
	held := s.permissions()

	for _, k := range keys {
		if !slices.Contains(held, k) {
			return false
		}
	}

	return true
}

// IsSuperAdmin reports whether the user acts as SuperAdmin.
func (s *Session) IsSuperAdmin() bool {
	st := s.Current()

	return st.User != nil && st.User.Role == RoleSuperAdmin
}
