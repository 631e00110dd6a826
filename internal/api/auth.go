package api

import (
	"context"
	"fmt"

	"github.com/nutriscan/nutriscan/internal/model"
)

// authPayload is the decoded data field of an auth exchange response.
type authPayload struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// AppleUserInfo is only sent on the very first Apple sign-in, when Apple
// still discloses the user's name and email.
type AppleUserInfo struct {
	Name *struct {
		FirstName string `json:"firstName,omitempty"`
		LastName  string `json:"lastName,omitempty"`
	} `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// LoginWithGoogle exchanges a Google OAuth access token for a backend
// session.
func (c *Client) LoginWithGoogle(ctx context.Context, accessToken string) (*model.Session, error) {
	body := map[string]string{"access_token": accessToken}

	var env envelope
	if err := c.postJSON(ctx, "/auth/google", body, &env); err != nil {
		return nil, fmt.Errorf("google auth: %w", err)
	}

	var payload authPayload
	if err := decodeData(&env, &payload); err != nil {
		return nil, fmt.Errorf("google auth: %w", err)
	}
	return &model.Session{Token: payload.Token, User: payload.User}, nil
}

// LoginWithApple exchanges an Apple ID token for a backend session. info may
// be nil on repeat sign-ins.
func (c *Client) LoginWithApple(ctx context.Context, idToken string, info *AppleUserInfo) (*model.Session, error) {
	body := map[string]any{"id_token": idToken}
	if info != nil && (info.Name != nil || info.Email != "") {
		body["user"] = info
	}

	var env envelope
	if err := c.postJSON(ctx, "/auth/apple", body, &env); err != nil {
		return nil, fmt.Errorf("apple auth: %w", err)
	}

	var payload authPayload
	if err := decodeData(&env, &payload); err != nil {
		return nil, fmt.Errorf("apple auth: %w", err)
	}
	return &model.Session{Token: payload.Token, User: payload.User}, nil
}

// FetchUser re-reads the authenticated user record, e.g. to refresh the
// locally cached session object.
func (c *Client) FetchUser(ctx context.Context) (*model.User, error) {
	var env envelope
	if err := c.getJSON(ctx, "/user", nil, &env); err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	var user model.User
	if err := decodeData(&env, &user); err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	return &user, nil
}
