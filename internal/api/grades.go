package api

import (
	"context"
	"net/url"

	"github.com/ishuri/school-console/internal/models"
)

// GradeRequest is the create/update payload for grades. CreateDefaultClass
// asks the backend to bootstrap an "A" section alongside a new grade.
type GradeRequest struct {
	Name               string `json:"name"`
	DisplayName        string `json:"display_name"`
	Description        string `json:"description,omitempty"`
	CreateDefaultClass bool   `json:"create_default_class,omitempty"`
}

// ListGrades returns grades, optionally active ones only.
func (c *Client) ListGrades(ctx context.Context, activeOnly bool) ([]models.Grade, error) {
	query := url.Values{}
	if activeOnly {
		query.Set("active_only", "true")
	}
	var grades []models.Grade
	if err := c.get(ctx, "/grades", query, &grades); err != nil {
		return nil, err
	}
	return grades, nil
}

// CreateGrade creates a grade; level is assigned server-side.
func (c *Client) CreateGrade(ctx context.Context, req GradeRequest) (*models.Grade, error) {
	var grade models.Grade
	if err := c.post(ctx, "/grades", req, &grade); err != nil {
		return nil, err
	}
	return &grade, nil
}

// UpdateGrade updates a grade's mutable fields.
func (c *Client) UpdateGrade(ctx context.Context, id string, req GradeRequest) (*models.Grade, error) {
	var grade models.Grade
	if err := c.put(ctx, "/grades/"+id, req, &grade); err != nil {
		return nil, err
	}
	return &grade, nil
}

// DeleteGrade removes a grade.
func (c *Client) DeleteGrade(ctx context.Context, id string) error {
	return c.delete(ctx, "/grades/"+id)
}

// ActivateGrade re-enables a grade.
func (c *Client) ActivateGrade(ctx context.Context, id string) error {
	return c.post(ctx, "/grades/"+id+"/activate", nil, nil)
}

// DeactivateGrade disables a grade.
func (c *Client) DeactivateGrade(ctx context.Context, id string) error {
	return c.post(ctx, "/grades/"+id+"/deactivate", nil, nil)
}

// GradeStatistics returns school-wide grade aggregates.
func (c *Client) GradeStatistics(ctx context.Context) (*models.GradeStatistics, error) {
	var stats models.GradeStatistics
	if err := c.get(ctx, "/grades/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
