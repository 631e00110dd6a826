package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nutriscan/nutriscan/internal/model"
	"github.com/nutriscan/nutriscan/internal/query"
)

func newJournalCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show a day's food journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := date
			if key == "" {
				key = time.Now().Format("2006-01-02")
			}

			v, err := app.Cache.Get(cmd.Context(), query.K("journal", key), func(ctx context.Context) (any, error) {
				return app.API.GetJournal(ctx, date)
			})
			if err != nil {
				return describeValidation(err)
			}
			renderJournalDay(cmd, v.(*model.JournalDay))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to show, YYYY-MM-DD (default today)")

	cmd.AddCommand(newJournalMonthCmd(app))
	return cmd
}

func newJournalMonthCmd(app *App) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show per-day goal results for a calendar month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = int(now.Month())
			}

			key := fmt.Sprintf("%04d-%02d", year, month)
			v, err := app.Cache.Get(cmd.Context(), query.K("journal", "month", key), func(ctx context.Context) (any, error) {
				return app.API.GetJournalMonth(ctx, year, month)
			})
			if err != nil {
				return err
			}
			renderJournalMonth(cmd, v.(*model.JournalMonth), year, month)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year (default current)")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (default current)")
	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Meal statistics",
	}

	var date string
	daily := &cobra.Command{
		Use:   "daily",
		Short: "One day's aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := date
			if key == "" {
				key = time.Now().Format("2006-01-02")
			}
			v, err := app.Cache.Get(cmd.Context(), query.K("stats", "daily", key), func(ctx context.Context) (any, error) {
				return app.API.DailyStatistics(ctx, date)
			})
			if err != nil {
				return describeValidation(err)
			}
			renderDailyStats(cmd, v.(*model.DailyStatistics))
			return nil
		},
	}
	daily.Flags().StringVar(&date, "date", "", "day, YYYY-MM-DD (default today)")

	var start, end string
	weekly := &cobra.Command{
		Use:   "weekly",
		Short: "A week's aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := start + ".." + end
			v, err := app.Cache.Get(cmd.Context(), query.K("stats", "weekly", key), func(ctx context.Context) (any, error) {
				return app.API.WeeklyStatistics(ctx, start, end)
			})
			if err != nil {
				return describeValidation(err)
			}
			renderWeeklyStats(cmd, v.(*model.WeeklyStatistics))
			return nil
		},
	}
	weekly.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD (default backend's current week)")
	weekly.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")

	cmd.AddCommand(daily, weekly)
	return cmd
}
