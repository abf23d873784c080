// Package session holds the process-wide session: the current credential and
// the claims derived from it. There is exactly one active session per client
// installation, seeded once at process start from the durable slot.
package session

import (
	"context"
	"log/slog"
	"sync"

	"reservas/internal/domain/auth"
)

// CredentialStore is the durable slot the session survives restarts in.
type CredentialStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, credential string) error
	Clear(ctx context.Context) error
}

// Store is the session store. It is an explicit dependency injected into every
// screen, never an ambient global. The mutex covers the UI's reads; writes are
// already serialised into single user-initiated login/logout actions.
type Store struct {
	mu     sync.RWMutex
	slot   CredentialStore
	cred   string
	claims auth.Claims
}

// New creates an unauthenticated session store backed by the given slot.
func New(slot CredentialStore) *Store {
	return &Store{slot: slot}
}

// Restore seeds the session from the durable slot. A credential that no longer
// decodes is silently discarded and the slot cleared — the user simply isn't
// logged in; no error reaches the caller.
// PRE: called once at process start, before any screen is served
// POST: IsAuthenticated() reflects the slot's content
func (s *Store) Restore(ctx context.Context) (auth.Claims, bool) {
	cred, err := s.slot.Load(ctx)
	if err != nil {
		slog.Error("auth_event", "event", "restore_failed", "error", err.Error())
		return auth.Claims{}, false
	}
	if cred == "" {
		return auth.Claims{}, false
	}

	claims, err := auth.Decode(cred)
	if err != nil {
		if clearErr := s.slot.Clear(ctx); clearErr != nil {
			slog.Error("auth_event", "event", "slot_clear_failed", "error", clearErr.Error())
		}
		slog.Info("auth_event", "event", "restore_discarded", "reason", "undecodable_credential")
		return auth.Claims{}, false
	}

	s.mu.Lock()
	s.cred = cred
	s.claims = claims
	s.mu.Unlock()

	slog.Info("auth_event", "event", "restore_success", "identity", claims.Identity)
	return claims, true
}

// Login decodes and adopts a credential. On decode failure the store and the
// durable slot are left untouched. The slot is written before the method
// returns.
// PRE: credential is non-empty
// POST: On success the session holds credential and its Claims
func (s *Store) Login(ctx context.Context, credential string) (auth.Claims, error) {
	claims, err := auth.Decode(credential)
	if err != nil {
		slog.Info("auth_event", "event", "login_rejected", "reason", "undecodable_credential")
		return auth.Claims{}, err
	}

	if err := s.slot.Save(ctx, credential); err != nil {
		slog.Error("auth_event", "event", "slot_write_failed", "error", err.Error())
		return auth.Claims{}, err
	}

	s.mu.Lock()
	s.cred = credential
	s.claims = claims
	s.mu.Unlock()

	slog.Info("auth_event", "event", "login_success", "identity", claims.Identity)
	return claims, nil
}

// Logout clears the in-memory session and the durable slot. Idempotent.
// PRE: none
// POST: IsAuthenticated() is false and the slot is empty
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.cred = ""
	s.claims = auth.Claims{}
	s.mu.Unlock()

	if err := s.slot.Clear(ctx); err != nil {
		slog.Error("auth_event", "event", "slot_clear_failed", "error", err.Error())
		return err
	}
	slog.Info("auth_event", "event", "logout")
	return nil
}

// IsAuthenticated reports whether a credential is currently held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred != ""
}

// Credential returns the current bearer credential, or "" when no session is
// active. Satisfies the API client's CredentialSource.
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred
}

// Claims returns the current claims and whether a session is active.
func (s *Store) Claims() (auth.Claims, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims, s.cred != ""
}

// HasRole reports whether the session carries the given role. Never an error:
// an unauthenticated store simply answers false.
func (s *Store) HasRole(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred != "" && s.claims.HasRole(role)
}

// IsAdmin is sugar for HasRole(auth.RoleAdmin).
func (s *Store) IsAdmin() bool {
	return s.HasRole(auth.RoleAdmin)
}
