package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"

	"github.com/nutriscan/nutriscan/internal/model"
)

// ScanMeal uploads a meal photo for AI analysis. mealType and notes are
// optional tags attached at scan time.
func (c *Client) ScanMeal(ctx context.Context, image []byte, filename string, mealType *model.MealType, notes string) (*model.ScannedMeal, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("scan meal: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("scan meal: %w", err)
	}
	if mealType != nil {
		if err := w.WriteField("meal_type", string(*mealType)); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
	}
	if notes != "" {
		if err := w.WriteField("notes", notes); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("scan meal: %w", err)
	}

	var env envelope
	if err := c.postMultipart(ctx, "/meals/scan", &buf, w.FormDataContentType(), &env); err != nil {
		return nil, fmt.Errorf("scan meal: %w", err)
	}

	var meal model.ScannedMeal
	if err := decodeData(&env, &meal); err != nil {
		return nil, fmt.Errorf("scan meal: %w", err)
	}
	return &meal, nil
}

// AddManualMeal records a meal without a photo scan.
func (c *Client) AddManualMeal(ctx context.Context, data model.AddManualMealData) (*model.ScannedMeal, error) {
	var env envelope
	if err := c.postJSON(ctx, "/meals/add-manual", data, &env); err != nil {
		return nil, fmt.Errorf("add manual meal: %w", err)
	}

	var meal model.ScannedMeal
	if err := decodeData(&env, &meal); err != nil {
		return nil, fmt.Errorf("add manual meal: %w", err)
	}
	return &meal, nil
}

// MealHistoryOptions filters the paginated history listing.
type MealHistoryOptions struct {
	Page      int
	PerPage   int
	MealType  *model.MealType
	StartDate string
	EndDate   string
}

type mealHistoryResponse struct {
	Success bool                    `json:"success"`
	Data    []model.MealHistoryItem `json:"data"`
	Meta    model.PageMeta          `json:"meta"`
}

// MealHistory lists past scans, newest first.
func (c *Client) MealHistory(ctx context.Context, opts MealHistoryOptions) ([]model.MealHistoryItem, *model.PageMeta, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 20
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(opts.Page))
	q.Set("per_page", strconv.Itoa(opts.PerPage))
	if opts.MealType != nil {
		q.Set("meal_type", string(*opts.MealType))
	}
	if opts.StartDate != "" {
		q.Set("start_date", opts.StartDate)
	}
	if opts.EndDate != "" {
		q.Set("end_date", opts.EndDate)
	}

	var resp mealHistoryResponse
	if err := c.getJSON(ctx, "/meals/history", q, &resp); err != nil {
		return nil, nil, fmt.Errorf("meal history: %w", err)
	}
	return resp.Data, &resp.Meta, nil
}

// GetMeal fetches one scanned meal by id.
func (c *Client) GetMeal(ctx context.Context, id int64) (*model.ScannedMeal, error) {
	var env envelope
	if err := c.getJSON(ctx, fmt.Sprintf("/meals/%d", id), nil, &env); err != nil {
		return nil, fmt.Errorf("get meal: %w", err)
	}

	var meal model.ScannedMeal
	if err := decodeData(&env, &meal); err != nil {
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return &meal, nil
}

// UpdateMeal saves review-screen edits (quantities, deletions, meal type).
func (c *Client) UpdateMeal(ctx context.Context, id int64, data model.UpdateMealData) (*model.ScannedMeal, error) {
	var env envelope
	if err := c.putJSON(ctx, fmt.Sprintf("/meals/%d", id), data, &env); err != nil {
		return nil, fmt.Errorf("update meal: %w", err)
	}

	var meal model.ScannedMeal
	if err := decodeData(&env, &meal); err != nil {
		return nil, fmt.Errorf("update meal: %w", err)
	}
	return &meal, nil
}

// DeleteMeal removes a scanned meal from the journal.
func (c *Client) DeleteMeal(ctx context.Context, id int64) error {
	var env envelope
	if err := c.deleteJSON(ctx, fmt.Sprintf("/meals/%d", id), &env); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	if err := decodeData(&env, nil); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return nil
}

type dailyStatisticsResponse struct {
	Success bool                  `json:"success"`
	Date    string                `json:"date"`
	Data    model.DailyStatistics `json:"data"`
}

// DailyStatistics aggregates the meals of one day (today when date is empty).
func (c *Client) DailyStatistics(ctx context.Context, date string) (*model.DailyStatistics, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}

	var resp dailyStatisticsResponse
	if err := c.getJSON(ctx, "/meals/statistics/daily", q, &resp); err != nil {
		return nil, fmt.Errorf("daily statistics: %w", err)
	}
	return &resp.Data, nil
}

type weeklyStatisticsResponse struct {
	Success bool `json:"success"`
	Period  struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	} `json:"period"`
	Data model.WeeklyStatistics `json:"data"`
}

// WeeklyStatistics aggregates a week of meals.
func (c *Client) WeeklyStatistics(ctx context.Context, startDate, endDate string) (*model.WeeklyStatistics, error) {
	q := url.Values{}
	if startDate != "" {
		q.Set("start_date", startDate)
	}
	if endDate != "" {
		q.Set("end_date", endDate)
	}

	var resp weeklyStatisticsResponse
	if err := c.getJSON(ctx, "/meals/statistics/weekly", q, &resp); err != nil {
		return nil, fmt.Errorf("weekly statistics: %w", err)
	}
	return &resp.Data, nil
}
