package api

import (
	"context"
	"net/url"

	"github.com/ishuri/school-console/internal/models"
)

// TermRequest is the create/update payload for terms.
type TermRequest struct {
	Name           string `json:"name"`
	AcademicYearID string `json:"academic_year_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Description    string `json:"description,omitempty"`
}

// ListTerms returns terms, optionally scoped to one academic year.
func (c *Client) ListTerms(ctx context.Context, academicYearID string) ([]models.Term, error) {
	query := url.Values{}
	if academicYearID != "" {
		query.Set("academic_year_id", academicYearID)
	}
	var terms []models.Term
	if err := c.get(ctx, "/terms", query, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// CreateTerm creates a term inside an academic year.
func (c *Client) CreateTerm(ctx context.Context, req TermRequest) (*models.Term, error) {
	var term models.Term
	if err := c.post(ctx, "/terms", req, &term); err != nil {
		return nil, err
	}
	return &term, nil
}

// UpdateTerm updates a term's mutable fields.
func (c *Client) UpdateTerm(ctx context.Context, id string, req TermRequest) (*models.Term, error) {
	var term models.Term
	if err := c.put(ctx, "/terms/"+id, req, &term); err != nil {
		return nil, err
	}
	return &term, nil
}

// DeleteTerm removes a term.
func (c *Client) DeleteTerm(ctx context.Context, id string) error {
	return c.delete(ctx, "/terms/"+id)
}

// ActivateTerm transitions upcoming→active.
func (c *Client) ActivateTerm(ctx context.Context, id string) (*models.Term, error) {
	var term models.Term
	if err := c.post(ctx, "/terms/"+id+"/activate", nil, &term); err != nil {
		return nil, err
	}
	return &term, nil
}

// CompleteTerm transitions active→completed.
func (c *Client) CompleteTerm(ctx context.Context, id string) (*models.Term, error) {
	var term models.Term
	if err := c.post(ctx, "/terms/"+id+"/complete", nil, &term); err != nil {
		return nil, err
	}
	return &term, nil
}
