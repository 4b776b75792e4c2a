package api

import (
	"context"
	"net/url"

	"github.com/ishuri/school-console/internal/models"
)

// ClassRequest is the create/update payload for classes.
type ClassRequest struct {
	Name        string `json:"name"`
	GradeID     string `json:"grade_id"`
	Capacity    int    `json:"capacity"`
	Description string `json:"description,omitempty"`
}

// ListClasses returns all classes, optionally with tariff counts included.
func (c *Client) ListClasses(ctx context.Context, withTariffCounts bool) ([]models.Class, error) {
	query := url.Values{}
	if withTariffCounts {
		query.Set("with_tariff_counts", "true")
	}
	var classes []models.Class
	if err := c.get(ctx, "/classes", query, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// ListClassesByGrade returns the classes of one grade.
func (c *Client) ListClassesByGrade(ctx context.Context, gradeID string) ([]models.Class, error) {
	var classes []models.Class
	if err := c.get(ctx, "/grades/"+gradeID+"/classes", nil, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// ClassStats returns the per-class statistic used by progressive loading.
func (c *Client) ClassStats(ctx context.Context, classID string) (models.ClassStats, error) {
	var stats models.ClassStats
	if err := c.get(ctx, "/classes/"+classID+"/stats", nil, &stats); err != nil {
		return models.ClassStats{}, err
	}
	return stats, nil
}

// CreateClass creates a class.
func (c *Client) CreateClass(ctx context.Context, req ClassRequest) (*models.Class, error) {
	var class models.Class
	if err := c.post(ctx, "/classes", req, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

// UpdateClass updates a class's mutable fields.
func (c *Client) UpdateClass(ctx context.Context, id string, req ClassRequest) (*models.Class, error) {
	var class models.Class
	if err := c.put(ctx, "/classes/"+id, req, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

// DeleteClass removes a class.
func (c *Client) DeleteClass(ctx context.Context, id string) error {
	return c.delete(ctx, "/classes/"+id)
}
