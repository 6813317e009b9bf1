package api

import (
	"context"
	"fmt"
	"net/http"
)

// CreateUserRequest represents a user creation request
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Active   bool   `json:"is_active"`
}

// UpdateUserRequest represents a user update request.
// Pointer fields are omitted when nil so partial updates stay partial.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Active   *bool   `json:"is_active,omitempty"`
}

// Grant represents a named permission entity managed by the service
type Grant struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// assignGrantRequest is the single-grant assign payload; the service
// has no batch form.
type assignGrantRequest struct {
	ID int64 `json:"id"`
}

// Users retrieves all users
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/users/", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserByID retrieves a single user
func (c *Client) UserByID(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a new user
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/users/", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an existing user
func (c *Client) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes a user
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil)
}

// Grants retrieves the full grant catalog
func (c *Client) Grants(ctx context.Context) ([]Grant, error) {
	var grants []Grant
	if err := c.do(ctx, http.MethodGet, "/grants/", nil, nil, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

// UserGrants retrieves the grants currently assigned to a user
func (c *Client) UserGrants(ctx context.Context, userID int64) ([]Grant, error) {
	var grants []Grant
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d/grants", userID), nil, nil, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

// AssignGrant assigns one grant to a user
func (c *Client) AssignGrant(ctx context.Context, userID, grantID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/grants", userID),
		nil, assignGrantRequest{ID: grantID}, nil)
}

// RevokeGrant revokes one grant from a user
func (c *Client) RevokeGrant(ctx context.Context, userID, grantID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d/grants/%d", userID, grantID), nil, nil, nil)
}
