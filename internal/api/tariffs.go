package api

import (
	"context"

	"github.com/ishuri/school-console/internal/models"
)

// TariffRequest is the create/update payload for tariffs.
type TariffRequest struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	Amount           int64  `json:"amount"`
	BillingFrequency string `json:"billing_frequency"`
	Description      string `json:"description,omitempty"`
}

// ListTariffs returns all tariffs.
func (c *Client) ListTariffs(ctx context.Context) ([]models.Tariff, error) {
	var tariffs []models.Tariff
	if err := c.get(ctx, "/tariffs", nil, &tariffs); err != nil {
		return nil, err
	}
	return tariffs, nil
}

// ClassTariffs returns the tariffs currently assigned to a class.
func (c *Client) ClassTariffs(ctx context.Context, classID string) ([]models.Tariff, error) {
	var tariffs []models.Tariff
	if err := c.get(ctx, "/classes/"+classID+"/tariffs", nil, &tariffs); err != nil {
		return nil, err
	}
	return tariffs, nil
}

// AssignTariffsToClass replaces a class's tariff set with exactly the given
// ids. This is full-replace, not additive: callers send the complete desired
// set, which makes the call idempotent.
func (c *Client) AssignTariffsToClass(ctx context.Context, classID string, tariffIDs []string) error {
	body := map[string]interface{}{"tariff_ids": tariffIDs}
	return c.put(ctx, "/classes/"+classID+"/tariffs", body, nil)
}

// RemoveTariffFromClass detaches a single tariff from a class. Kept separate
// from AssignTariffsToClass deliberately; the two paths have different
// idempotence guarantees.
func (c *Client) RemoveTariffFromClass(ctx context.Context, classID, tariffID string) error {
	return c.delete(ctx, "/classes/"+classID+"/tariffs/"+tariffID)
}

// CreateTariff creates a tariff.
func (c *Client) CreateTariff(ctx context.Context, req TariffRequest) (*models.Tariff, error) {
	var tariff models.Tariff
	if err := c.post(ctx, "/tariffs", req, &tariff); err != nil {
		return nil, err
	}
	return &tariff, nil
}

// UpdateTariff updates a tariff's mutable fields.
func (c *Client) UpdateTariff(ctx context.Context, id string, req TariffRequest) (*models.Tariff, error) {
	var tariff models.Tariff
	if err := c.put(ctx, "/tariffs/"+id, req, &tariff); err != nil {
		return nil, err
	}
	return &tariff, nil
}

// TariffStats returns school-wide tariff aggregates.
func (c *Client) TariffStats(ctx context.Context) (*models.TariffStats, error) {
	var stats models.TariffStats
	if err := c.get(ctx, "/tariffs/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// TariffPaymentProgress reports collection progress for one tariff in one class.
func (c *Client) TariffPaymentProgress(ctx context.Context, classID, tariffID string) (*models.TariffPaymentProgress, error) {
	var progress models.TariffPaymentProgress
	if err := c.get(ctx, "/classes/"+classID+"/tariffs/"+tariffID+"/payment-progress", nil, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}
