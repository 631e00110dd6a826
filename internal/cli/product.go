package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nutriscan/nutriscan/internal/api"
	"github.com/nutriscan/nutriscan/internal/model"
	"github.com/nutriscan/nutriscan/internal/query"
)

func newProductCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Look up packaged foods by barcode",
	}
	cmd.AddCommand(
		newProductScanCmd(app),
		newProductHistoryCmd(app),
		newProductShowCmd(app),
		newProductClearCmd(app),
		newProductStatsCmd(app),
	)
	return cmd
}

func newProductScanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <barcode>",
		Short: "Look a barcode up and record the scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.Cache.Mutate(cmd.Context(), query.Mutation{
				Run: func(ctx context.Context) (any, error) {
					return app.API.ScanProduct(ctx, args[0])
				},
				Invalidates: []query.Key{query.K("products")},
			})
			if err != nil {
				if errors.Is(err, api.ErrNotFound) {
					return fmt.Errorf("no product found for barcode %s", args[0])
				}
				return err
			}
			renderProduct(cmd, v.(*model.ScannedProduct))
			return nil
		},
	}
}

func newProductHistoryCmd(app *App) *cobra.Command {
	var page, perPage int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past barcode scans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := query.K("products", "history", strconv.Itoa(page), strconv.Itoa(perPage))
			v, err := app.Cache.Get(cmd.Context(), key, func(ctx context.Context) (any, error) {
				items, meta, err := app.API.ScanHistory(ctx, page, perPage)
				if err != nil {
					return nil, err
				}
				return &productHistoryPage{Items: items, Meta: meta}, nil
			})
			if err != nil {
				return err
			}
			renderProductHistory(cmd, v.(*productHistoryPage))
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 20, "items per page")
	return cmd
}

type productHistoryPage struct {
	Items []model.ScannedProduct
	Meta  *model.PageMeta
}

func newProductShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one past scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid scan id %q", args[0])
			}

			v, err := app.Cache.Get(cmd.Context(), query.K("products", args[0]), func(ctx context.Context) (any, error) {
				return app.API.GetScan(ctx, id)
			})
			if err != nil {
				return err
			}
			renderProduct(cmd, v.(*model.ScannedProduct))
			return nil
		},
	}
}

func newProductClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the whole scan history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := app.Cache.Mutate(cmd.Context(), query.Mutation{
				Run: func(ctx context.Context) (any, error) {
					return nil, app.API.ClearScanHistory(ctx)
				},
				Invalidates: []query.Key{query.K("products")},
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "scan history cleared")
			return nil
		},
	}
}

func newProductStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Scan counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.Cache.Get(cmd.Context(), query.K("products", "stats"), func(ctx context.Context) (any, error) {
				return app.API.ScanStatistics(ctx)
			})
			if err != nil {
				return err
			}
			renderScanStats(cmd, v.(*model.ScanStatistics))
			return nil
		},
	}
}
