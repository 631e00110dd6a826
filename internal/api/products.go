package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nutriscan/nutriscan/internal/model"
)

// ScanProduct looks a barcode up in the packaged-food database. A miss is
// reported as ErrNotFound so the scanning screen can treat it as a
// recoverable condition and keep the camera session alive.
func (c *Client) ScanProduct(ctx context.Context, barcode string) (*model.ScannedProduct, error) {
	body := map[string]string{"barcode": barcode}

	var env envelope
	if err := c.postJSON(ctx, "/products/scan", body, &env); err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}

	var product model.ScannedProduct
	if err := decodeData(&env, &product); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusOK {
			return nil, fmt.Errorf("scan product %q: %w", barcode, ErrNotFound)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &product, nil
}

type scanHistoryResponse struct {
	Success bool                   `json:"success"`
	Data    []model.ScannedProduct `json:"data"`
	Meta    model.PageMeta         `json:"meta"`
}

// ScanHistory lists past product scans, newest first.
func (c *Client) ScanHistory(ctx context.Context, page, perPage int) ([]model.ScannedProduct, *model.PageMeta, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var resp scanHistoryResponse
	if err := c.getJSON(ctx, "/products/scan-history", q, &resp); err != nil {
		return nil, nil, fmt.Errorf("scan history: %w", err)
	}
	return resp.Data, &resp.Meta, nil
}

// GetScan fetches one past product scan by id.
func (c *Client) GetScan(ctx context.Context, id int64) (*model.ScannedProduct, error) {
	var env envelope
	if err := c.getJSON(ctx, fmt.Sprintf("/products/scan-history/%d", id), nil, &env); err != nil {
		return nil, fmt.Errorf("get scan: %w", err)
	}

	var product model.ScannedProduct
	if err := decodeData(&env, &product); err != nil {
		return nil, fmt.Errorf("get scan: %w", err)
	}
	return &product, nil
}

// ClearScanHistory removes all past product scans.
func (c *Client) ClearScanHistory(ctx context.Context) error {
	var env envelope
	if err := c.deleteJSON(ctx, "/products/scan-history", &env); err != nil {
		return fmt.Errorf("clear scan history: %w", err)
	}
	if err := decodeData(&env, nil); err != nil {
		return fmt.Errorf("clear scan history: %w", err)
	}
	return nil
}

// ScanStatistics summarizes product scan counts.
func (c *Client) ScanStatistics(ctx context.Context) (*model.ScanStatistics, error) {
	var env envelope
	if err := c.getJSON(ctx, "/products/scan-statistics", nil, &env); err != nil {
		return nil, fmt.Errorf("scan statistics: %w", err)
	}

	var stats model.ScanStatistics
	if err := decodeData(&env, &stats); err != nil {
		return nil, fmt.Errorf("scan statistics: %w", err)
	}
	return &stats, nil
}
