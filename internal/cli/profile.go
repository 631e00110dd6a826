package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nutriscan/nutriscan/internal/api"
	"github.com/nutriscan/nutriscan/internal/model"
	"github.com/nutriscan/nutriscan/internal/query"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the nutrition profile",
	}
	cmd.AddCommand(
		newProfileShowCmd(app),
		newProfileCreateCmd(app),
		newProfileUpdateCmd(app),
		newProfileDeleteCmd(app),
	)
	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current profile and daily targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.Cache.Get(cmd.Context(), query.K("profile"), func(ctx context.Context) (any, error) {
				return app.API.GetProfile(ctx)
			})
			if err != nil {
				if errors.Is(err, api.ErrNotFound) {
					return fmt.Errorf("no profile yet, run: nutriscan profile create")
				}
				return err
			}
			renderProfile(cmd, v.(*model.UserProfile))
			return nil
		},
	}
}

type profileFlags struct {
	gender       string
	age          int
	weight       float64
	height       float64
	bodyType     string
	goal         string
	activity     string
	targetWeight float64
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.gender, "gender", "", "male or female")
	cmd.Flags().IntVar(&f.age, "age", 0, "age in years")
	cmd.Flags().Float64Var(&f.weight, "weight", 0, "weight in kg")
	cmd.Flags().Float64Var(&f.height, "height", 0, "height in cm")
	cmd.Flags().StringVar(&f.bodyType, "body-type", "", "ectomorph, mesomorph or endomorph")
	cmd.Flags().StringVar(&f.goal, "goal", "", "bulk, cut, recomp or maintain")
	cmd.Flags().StringVar(&f.activity, "activity", "", "sedentary, light, moderate, active or very_active")
	cmd.Flags().Float64Var(&f.targetWeight, "target-weight", 0, "target weight in kg")
}

func newProfileCreateCmd(app *App) *cobra.Command {
	var f profileFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Complete onboarding by creating the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := model.CreateProfileData{
				Gender:        model.Gender(f.gender),
				Age:           f.age,
				Weight:        f.weight,
				Height:        f.height,
				BodyType:      model.BodyType(f.bodyType),
				Goal:          model.Goal(f.goal),
				ActivityLevel: model.ActivityLevel(f.activity),
			}
			if f.targetWeight > 0 {
				data.TargetWeight = &f.targetWeight
			}

			v, err := app.Cache.Mutate(cmd.Context(), query.Mutation{
				Run: func(ctx context.Context) (any, error) {
					return app.API.CreateProfile(ctx, data)
				},
				Invalidates: []query.Key{query.K("profile"), query.K("journal")},
			})
			if err != nil {
				return describeValidation(err)
			}
			renderProfile(cmd, v.(*model.UserProfile))
			return nil
		},
	}

	f.register(cmd)
	for _, name := range []string{"gender", "age", "weight", "height", "body-type", "goal", "activity"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newProfileUpdateCmd(app *App) *cobra.Command {
	var f profileFlags

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields; unset flags stay as they are",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data model.UpdateProfileData
			if cmd.Flags().Changed("gender") {
				g := model.Gender(f.gender)
				data.Gender = &g
			}
			if cmd.Flags().Changed("age") {
				data.Age = &f.age
			}
			if cmd.Flags().Changed("weight") {
				data.Weight = &f.weight
			}
			if cmd.Flags().Changed("height") {
				data.Height = &f.height
			}
			if cmd.Flags().Changed("body-type") {
				bt := model.BodyType(f.bodyType)
				data.BodyType = &bt
			}
			if cmd.Flags().Changed("goal") {
				g := model.Goal(f.goal)
				data.Goal = &g
			}
			if cmd.Flags().Changed("activity") {
				a := model.ActivityLevel(f.activity)
				data.ActivityLevel = &a
			}
			if cmd.Flags().Changed("target-weight") {
				data.TargetWeight = &f.targetWeight
			}

			v, err := app.Cache.Mutate(cmd.Context(), query.Mutation{
				Run: func(ctx context.Context) (any, error) {
					return app.API.UpdateProfile(ctx, data)
				},
				Invalidates: []query.Key{query.K("profile"), query.K("journal")},
			})
			if err != nil {
				return describeValidation(err)
			}
			renderProfile(cmd, v.(*model.UserProfile))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func newProfileDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the nutrition profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := app.Cache.Mutate(cmd.Context(), query.Mutation{
				Run: func(ctx context.Context) (any, error) {
					return nil, app.API.DeleteProfile(ctx)
				},
				Invalidates: []query.Key{query.K("profile"), query.K("journal")},
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "profile deleted")
			return nil
		},
	}
}
