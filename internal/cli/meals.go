package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nutriscan/nutriscan/internal/api"
	"github.com/nutriscan/nutriscan/internal/meal"
	"github.com/nutriscan/nutriscan/internal/model"
	"github.com/nutriscan/nutriscan/internal/query"
)

// mealKeys are the cache prefixes any meal mutation makes stale.
var mealKeys = []query.Key{
	query.K("meals"),
	query.K("journal"),
	query.K("stats"),
}

func newMealsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meals",
		Short: "Scan, review and manage meals",
	}
	cmd.AddCommand(
		newMealsHistoryCmd(app),
		newMealsShowCmd(app),
		newMealsScanCmd(app),
		newMealsAddCmd(app),
		newMealsEditCmd(app),
		newMealsDeleteCmd(app),
	)
	return cmd
}

func newMealsHistoryCmd(app *App) *cobra.Command {
	var page, perPage int
	var mealType string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past meals, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := api.MealHistoryOptions{Page: page, PerPage: perPage}
			if mealType != "" {
				mt := model.MealType(mealType)
				opts.MealType = &mt
			}

			key := query.K("meals", "history",
				strconv.Itoa(page), strconv.Itoa(perPage), mealType)
			v, err := app.Cache.Get(cmd.Context(), key, func(ctx context.Context) (any, error) {
				items, meta, err := app.API.MealHistory(ctx, opts)
				if err != nil {
					return nil, err
				}
				return &mealHistoryPage{Items: items, Meta: meta}, nil
			})
			if err != nil {
				return err
			}
			renderMealHistory(cmd, v.(*mealHistoryPage))
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 20, "items per page")
	cmd.Flags().StringVar(&mealType, "type", "", "filter by meal type")
	return cmd
}

type mealHistoryPage struct {
	Items []model.MealHistoryItem
	Meta  *model.PageMeta
}

func newMealsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one meal with its detected foods",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid meal id %q", args[0])
			}

			v, err := app.Cache.Get(cmd.Context(), query.K("meals", args[0]), func(ctx context.Context) (any, error) {
				return app.API.GetMeal(ctx, id)
			})
			if err != nil {
				return err
			}
			renderMeal(cmd, v.(*model.ScannedMeal))
			return nil
		},
	}
}

func newMealsScanCmd(app *App) *cobra.Command {
	var mealType, notes string

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Upload a meal photo for analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			var mt *model.MealType
			if mealType != "" {
				v := model.MealType(mealType)
				mt = &v
			}

			v, err := app.Cache.Mutate(cmd.Context(), query.Mutation{
				Run: func(ctx context.Context) (any, error) {
					return app.API.ScanMeal(ctx, image, filepath.Base(args[0]), mt, notes)
				},
				Invalidates: mealKeys,
			})
			if err != nil {
				return describeValidation(err)
			}
			renderMeal(cmd, v.(*model.ScannedMeal))
			return nil
		},
	}
	cmd.Flags().StringVar(&mealType, "type", "", "breakfast, lunch, dinner or snack")
	cmd.Flags().StringVar(&notes, "notes", "", "notes attached to the scan")
	return cmd
}

func newMealsAddCmd(app *App) *cobra.Command {
	var name, mealType, notes string
	var foods []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a meal without a photo",
		Long: `Record a meal from manually entered foods.

Each --food takes name:quantity:unit:kcal:proteins:carbs:fat, e.g.
  --food "oatmeal:60:g:228:8.1:38.9:4.2"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(foods) == 0 {
				return fmt.Errorf("at least one --food is required")
			}

			data := model.AddManualMealData{MealName: name}
			if mealType != "" {
				mt := model.MealType(mealType)
				data.MealType = &mt
			}
			if notes != "" {
				data.Notes = &notes
			}
			for _, spec := range foods {
				f, err := parseFoodSpec(spec)
				if err != nil {
					return err
				}
				data.Foods = append(data.Foods, f)
			}

			v, err := app.Cache.Mutate(cmd.Context(), query.Mutation{
				Run: func(ctx context.Context) (any, error) {
					return app.API.AddManualMeal(ctx, data)
				},
				Invalidates: mealKeys,
			})
			if err != nil {
				return describeValidation(err)
			}
			renderMeal(cmd, v.(*model.ScannedMeal))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "meal name")
	cmd.Flags().StringVar(&mealType, "type", "", "breakfast, lunch, dinner or snack")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().StringArrayVar(&foods, "food", nil, "food entry, name:qty:unit:kcal:proteins:carbs:fat")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// parseFoodSpec parses name:quantity:unit:kcal:proteins:carbs:fat.
func parseFoodSpec(spec string) (model.ManualMealFood, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 7 {
		return model.ManualMealFood{}, fmt.Errorf("food %q: want name:qty:unit:kcal:proteins:carbs:fat", spec)
	}

	nums := make([]float64, 5)
	for i, s := range []string{parts[1], parts[3], parts[4], parts[5], parts[6]} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.ManualMealFood{}, fmt.Errorf("food %q: %q is not a number", spec, s)
		}
		nums[i] = v
	}

	return model.ManualMealFood{
		Name:     parts[0],
		Quantity: nums[0],
		Unit:     parts[2],
		Nutrition: model.FoodNutrition{
			EnergyKcal:    nums[1],
			Proteins:      nums[2],
			Carbohydrates: nums[3],
			Fat:           nums[4],
		},
	}, nil
}

func newMealsEditCmd(app *App) *cobra.Command {
	var mealType, notes string
	var quantities []string
	var removes []int

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rescale, remove or retag detected foods, then save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid meal id %q", args[0])
			}

			current, err := app.API.GetMeal(ctx, id)
			if err != nil {
				return err
			}

			editor := meal.NewEditor(current)
			for _, spec := range quantities {
				idx, qty, err := parseQuantitySpec(spec)
				if err != nil {
					return err
				}
				if err := editor.SetQuantity(idx, qty); err != nil {
					return fmt.Errorf("item %d: %w", idx, err)
				}
			}

			// delete from the highest index down so earlier removals do not
			// shift the later ones
			sort.Sort(sort.Reverse(sort.IntSlice(removes)))
			for _, idx := range removes {
				if err := editor.RemoveItem(idx); err != nil {
					return fmt.Errorf("item %d: %w", idx, err)
				}
			}

			if mealType != "" {
				editor.SetMealType(model.MealType(mealType))
			}
			if cmd.Flags().Changed("notes") {
				editor.SetNotes(notes)
			}

			payload, err := editor.Commit()
			if err != nil {
				return err
			}

			v, err := app.Cache.Mutate(ctx, query.Mutation{
				Run: func(ctx context.Context) (any, error) {
					return app.API.UpdateMeal(ctx, id, *payload)
				},
				Invalidates: mealKeys,
			})
			if err != nil {
				return describeValidation(err)
			}
			renderMeal(cmd, v.(*model.ScannedMeal))
			return nil
		},
	}
	cmd.Flags().StringVar(&mealType, "type", "", "breakfast, lunch, dinner or snack")
	cmd.Flags().StringVar(&notes, "notes", "", "replace the notes")
	cmd.Flags().StringArrayVar(&quantities, "quantity", nil, "rescale an item, index=value (repeatable)")
	cmd.Flags().IntSliceVar(&removes, "remove", nil, "remove an item by index (repeatable)")
	return cmd
}

// parseQuantitySpec parses index=value.
func parseQuantitySpec(spec string) (int, float64, error) {
	idxStr, qtyStr, ok := strings.Cut(spec, "=")
	if !ok {
		return 0, 0, fmt.Errorf("quantity %q: want index=value", spec)
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return 0, 0, fmt.Errorf("quantity %q: bad index", spec)
	}
	qty, err := strconv.ParseFloat(qtyStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("quantity %q: bad value", spec)
	}
	return idx, qty, nil
}

func newMealsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a meal from the journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid meal id %q", args[0])
			}

			_, err = app.Cache.Mutate(cmd.Context(), query.Mutation{
				Run: func(ctx context.Context) (any, error) {
					return nil, app.API.DeleteMeal(ctx, id)
				},
				Invalidates: mealKeys,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "meal %d deleted\n", id)
			return nil
		},
	}
}
