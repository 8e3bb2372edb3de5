// Package provider wraps the remote authentication backend behind the
// Gateway interface and exposes a single change-notification stream.
package provider

import "context"

// Principal is the raw authenticated-user record delivered by the backend.
type Principal struct {
	// ID is the backend-issued unique user identifier.
	ID string `json:"id"`
	// Email is the account email.
	Email string `json:"email"`
	// DisplayName is optional, display-only.
	DisplayName string `json:"displayName,omitempty"`
	// AvatarRef is an optional reference to a profile image.
	AvatarRef string `json:"avatarRef,omitempty"`
}

// Credentials carry a sign-in or sign-up request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Unsubscribe detaches a change-stream subscriber.
type Unsubscribe func()

// Gateway defines the identity-provider operations consumed by the
// session store and the UI.
type Gateway interface {
	// SignIn exchanges credentials for a principal and notifies the
	// change stream on success.
	SignIn(ctx context.Context, creds Credentials) (Principal, error)
	// SignUp registers a new account, signs it in, and notifies the
	// change stream on success.
	SignUp(ctx context.Context, creds Credentials) (Principal, error)
	// SignOut revokes the current session and notifies the change
	// stream with a nil principal.
	SignOut(ctx context.Context) error
	// OnChange registers a callback for principal transitions. The
	// current value is delivered asynchronously right after
	// registration, then again on every transition. The callback
	// receives nil when no principal is signed in.
	OnChange(fn func(*Principal)) Unsubscribe
}
