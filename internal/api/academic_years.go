package api

import (
	"context"

	"github.com/ishuri/school-console/internal/models"
)

// AcademicYearRequest is the create/update payload for academic years.
type AcademicYearRequest struct {
	Name        string `json:"name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description,omitempty"`
}

// ListAcademicYears returns all academic years.
func (c *Client) ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error) {
	var years []models.AcademicYear
	if err := c.get(ctx, "/academic-years", nil, &years); err != nil {
		return nil, err
	}
	return years, nil
}

// CurrentAcademicYear returns the currently active academic year.
func (c *Client) CurrentAcademicYear(ctx context.Context) (*models.AcademicYear, error) {
	var year models.AcademicYear
	if err := c.get(ctx, "/academic-years/current", nil, &year); err != nil {
		return nil, err
	}
	return &year, nil
}

// CreateAcademicYear creates a year; the backend starts it in draft.
func (c *Client) CreateAcademicYear(ctx context.Context, req AcademicYearRequest) (*models.AcademicYear, error) {
	var year models.AcademicYear
	if err := c.post(ctx, "/academic-years", req, &year); err != nil {
		return nil, err
	}
	return &year, nil
}

// UpdateAcademicYear updates a year's mutable fields.
func (c *Client) UpdateAcademicYear(ctx context.Context, id string, req AcademicYearRequest) (*models.AcademicYear, error) {
	var year models.AcademicYear
	if err := c.put(ctx, "/academic-years/"+id, req, &year); err != nil {
		return nil, err
	}
	return &year, nil
}

// DeleteAcademicYear removes a year. The backend refuses once the year has
// left draft.
func (c *Client) DeleteAcademicYear(ctx context.Context, id string) error {
	return c.delete(ctx, "/academic-years/"+id)
}

// ActivateAcademicYear transitions draft→active.
func (c *Client) ActivateAcademicYear(ctx context.Context, id string) (*models.AcademicYear, error) {
	var year models.AcademicYear
	if err := c.post(ctx, "/academic-years/"+id+"/activate", nil, &year); err != nil {
		return nil, err
	}
	return &year, nil
}

// CloseAcademicYear transitions active→closed.
func (c *Client) CloseAcademicYear(ctx context.Context, id string) (*models.AcademicYear, error) {
	var year models.AcademicYear
	if err := c.post(ctx, "/academic-years/"+id+"/close", nil, &year); err != nil {
		return nil, err
	}
	return &year, nil
}
