package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// guestKeyPrefix marks locally generated guest owner keys.
	guestKeyPrefix = "guest_"
	// guestKeyStateKey is the local-store key the guest pseudo-id is
	// persisted under, so a guest's records survive app restarts.
	guestKeyStateKey = "guest_owner_key"
)

// ResolveOwnerKey derives the namespacing key for the current identity.
// Authenticated identities use their provider id. Guests get a persisted
// pseudo-id, generated once; idempotence under concurrent callers comes
// from the local store's own read-modify-write atomicity.
func (f *Facade) ResolveOwnerKey() (string, error) {
	id := f.session.Identity()
	if id == nil {
		return "", ErrNoIdentity
	}
	if !id.IsGuest {
		return id.ID, nil
	}
	key, err := f.kv.GetOrSet(guestKeyStateKey, newGuestKey)
	if err != nil {
		return "", fmt.Errorf("resolve guest owner key: %w", err)
	}
	return key, nil
}

// newGuestKey generates a guest_<timestamp>_<random> pseudo-id.
func newGuestKey() string {
	random := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s%d_%s", guestKeyPrefix, time.Now().UnixMilli(), random)
}
