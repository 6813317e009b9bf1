package api

import (
	"context"
	"net/http"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User represents a service user
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Active   bool   `json:"is_active"`
}

// Login authenticates with the service and returns a bearer token.
// The token is NOT stored on the client; session ownership lives in
// the session package.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	req := LoginRequest{
		Username: username,
		Password: password,
	}

	var loginResp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", nil, req, &loginResp); err != nil {
		return nil, err
	}

	return &loginResp, nil
}

// Register creates a new user account. No token is returned; the caller
// logs in separately.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	req := RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}

	var user User
	if err := c.do(ctx, http.MethodPost, "/register", nil, req, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Profile retrieves the profile of the authenticated user
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/profile", nil, nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
