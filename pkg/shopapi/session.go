package shopapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Me returns the user behind the current session cookie.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, call{operation: "me", method: http.MethodGet, path: "/me", fallback: "not logged in"}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*User, error) {
	var user User
	if err := c.do(ctx, call{operation: "login", method: http.MethodPost, path: "/login", body: req, fallback: "Login failed"}, &user); err != nil {
		return c.acceptedUser(ctx, err)
	}
	return &user, nil
}

// Logout ends the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{operation: "logout", method: http.MethodDelete, path: "/logout", fallback: "Logout failed"}, nil)
}

// Register creates an account; the backend signs the new user in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	if err := c.do(ctx, call{operation: "register", method: http.MethodPost, path: "/users", body: req, fallback: "Registration failed"}, &user); err != nil {
		return c.acceptedUser(ctx, err)
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int, req UpdateUserRequest) (*User, error) {
	var user User
	path := fmt.Sprintf("/users/%d", id)
	if err := c.do(ctx, call{operation: "update_user", method: http.MethodPatch, path: path, body: req, fallback: "Failed to update profile"}, &user); err != nil {
		return c.acceptedUser(ctx, err)
	}
	return &user, nil
}

// acceptedUser re-reads the signed-in user when the backend accepted a session call
// but its body could not be decoded. Other errors pass through.
func (c *Client) acceptedUser(ctx context.Context, err error) (*User, error) {
	if !errors.Is(err, errUnreadableBody) {
		return nil, err
	}
	return c.Me(ctx)
}
