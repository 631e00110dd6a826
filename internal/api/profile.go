package api

import (
	"context"
	"fmt"

	"github.com/nutriscan/nutriscan/internal/model"
)

// GetProfile returns the user's nutrition profile. ErrNotFound means
// onboarding has not been completed yet.
func (c *Client) GetProfile(ctx context.Context) (*model.UserProfile, error) {
	var env envelope
	if err := c.getJSON(ctx, "/profile", nil, &env); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var profile model.UserProfile
	if err := decodeData(&env, &profile); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// CreateProfile submits the onboarding wizard payload. Daily targets come
// back computed by the backend and must be rendered verbatim.
func (c *Client) CreateProfile(ctx context.Context, data model.CreateProfileData) (*model.UserProfile, error) {
	var env envelope
	if err := c.postJSON(ctx, "/profile", data, &env); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	var profile model.UserProfile
	if err := decodeData(&env, &profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile applies a partial profile update from the settings flow.
func (c *Client) UpdateProfile(ctx context.Context, data model.UpdateProfileData) (*model.UserProfile, error) {
	var env envelope
	if err := c.putJSON(ctx, "/profile", data, &env); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	var profile model.UserProfile
	if err := decodeData(&env, &profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &profile, nil
}

// DeleteProfile removes the nutrition profile.
func (c *Client) DeleteProfile(ctx context.Context) error {
	var env envelope
	if err := c.deleteJSON(ctx, "/profile", &env); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if err := decodeData(&env, nil); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
