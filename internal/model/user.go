// Package model holds the plain records mirrored from the backend JSON API.
// The client does not own these shapes; it trusts backend-computed fields and
// only performs ephemeral local recomputation for optimistic UI.
package model

// Provider identifies the third-party identity provider an account came from.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderApple  Provider = "apple"
)

// User is the authenticated account as returned by the auth exchange.
type User struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Role      string   `json:"role"`
	AvatarURL string   `json:"profile_photo_url"`
	Provider  Provider `json:"provider"`
}

// Session couples the bearer token with the user it belongs to. It is the
// unit persisted by the session store.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
