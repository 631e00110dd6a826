package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nutriscan/nutriscan/internal/model"
)

// journalResponse inlines the journal payload next to success rather than
// nesting it under data.
type journalResponse struct {
	Success    bool                     `json:"success"`
	Date       string                   `json:"date"`
	Meals      []model.ScannedMeal      `json:"meals"`
	Consumed   model.JournalConsumed    `json:"consumed"`
	Goals      *model.JournalGoals      `json:"goals"`
	GoalStatus *model.JournalGoalStatus `json:"goal_status"`
}

// GetJournal returns the journal for a YYYY-MM-DD date; an empty date means
// today. A malformed date surfaces the backend's field message as a
// *ValidationError.
func (c *Client) GetJournal(ctx context.Context, date string) (*model.JournalDay, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}

	var resp journalResponse
	if err := c.getJSON(ctx, "/journal", q, &resp); err != nil {
		return nil, fmt.Errorf("get journal: %w", err)
	}

	return &model.JournalDay{
		Date:       resp.Date,
		Meals:      resp.Meals,
		Consumed:   resp.Consumed,
		Goals:      resp.Goals,
		GoalStatus: resp.GoalStatus,
	}, nil
}

// GetJournalMonth returns per-day goal statuses for calendar rendering.
// Zero year/month mean the current ones (resolved by the backend).
func (c *Client) GetJournalMonth(ctx context.Context, year, month int) (*model.JournalMonth, error) {
	q := url.Values{}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	if month > 0 {
		q.Set("month", strconv.Itoa(month))
	}

	var resp model.JournalMonth
	if err := c.getJSON(ctx, "/journal/month", q, &resp); err != nil {
		return nil, fmt.Errorf("get journal month: %w", err)
	}
	return &resp, nil
}
