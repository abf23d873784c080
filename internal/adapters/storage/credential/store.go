package credential

import "context"

// Store persists the durable credential slot: exactly one value surviving
// process restarts within the same installation. Written only by the session
// store's login/logout/restore, never concurrently.
type Store interface {
	// Load returns the stored credential, or "" when the slot is empty.
	Load(ctx context.Context) (string, error)
	// Save overwrites the slot with the given credential.
	Save(ctx context.Context, credential string) error
	// Clear empties the slot. Idempotent.
	Clear(ctx context.Context) error
}
