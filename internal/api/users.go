package api

import (
	"context"

	"github.com/ishuri/school-console/internal/models"
)

// UserRequest is the create/update payload for console accounts.
type UserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ListUsers returns all console accounts.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.get(ctx, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates a console account.
func (c *Client) CreateUser(ctx context.Context, req UserRequest) (*models.User, error) {
	var user models.User
	if err := c.post(ctx, "/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an account's mutable fields.
func (c *Client) UpdateUser(ctx context.Context, id string, req UserRequest) (*models.User, error) {
	var user models.User
	if err := c.put(ctx, "/users/"+id, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.delete(ctx, "/users/"+id)
}

// ActivateUser re-enables an account.
func (c *Client) ActivateUser(ctx context.Context, id string) error {
	return c.post(ctx, "/users/"+id+"/activate", nil, nil)
}

// DeactivateUser disables an account.
func (c *Client) DeactivateUser(ctx context.Context, id string) error {
	return c.post(ctx, "/users/"+id+"/deactivate", nil, nil)
}

// BulkUserAction applies one action (activate, deactivate, delete) to a set
// of accounts.
func (c *Client) BulkUserAction(ctx context.Context, action string, ids []string) error {
	body := map[string]interface{}{"action": action, "user_ids": ids}
	return c.post(ctx, "/users/bulk-action", body, nil)
}

// UserStatistics returns account aggregates.
func (c *Client) UserStatistics(ctx context.Context) (*models.UserStatistics, error) {
	var stats models.UserStatistics
	if err := c.get(ctx, "/users/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Roles returns the server-defined role→permissions list.
func (c *Client) Roles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := c.get(ctx, "/users/roles", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}
