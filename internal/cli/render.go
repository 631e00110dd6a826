package cli

import (
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nutriscan/nutriscan/internal/api"
	"github.com/nutriscan/nutriscan/internal/model"
)

// describeValidation unwraps a *ValidationError into a readable multi-line
// message; other errors pass through unchanged.
func describeValidation(err error) error {
	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		return err
	}

	msg := verr.Message
	fields := make([]string, 0, len(verr.Fields))
	for f := range verr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		for _, m := range verr.Fields[f] {
			msg += "\n  " + f + ": " + m
		}
	}
	return errors.New(msg)
}

func newTabWriter(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
}

func renderProfile(cmd *cobra.Command, p *model.UserProfile) {
	w := newTabWriter(cmd)
	fmt.Fprintf(w, "gender\t%s\n", p.Gender)
	fmt.Fprintf(w, "age\t%d\n", p.Age)
	fmt.Fprintf(w, "weight\t%.1f kg\n", p.Weight)
	fmt.Fprintf(w, "height\t%.0f cm\n", p.Height)
	fmt.Fprintf(w, "bmi\t%.1f (%s)\n", p.BMI, p.BMICategory)
	fmt.Fprintf(w, "body type\t%s\n", p.BodyType)
	fmt.Fprintf(w, "goal\t%s\n", p.Goal)
	fmt.Fprintf(w, "activity\t%s\n", p.ActivityLevel)
	fmt.Fprintf(w, "targets\t%.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat\n",
		p.DailyTargets.Calories, p.DailyTargets.Proteins, p.DailyTargets.Carbs, p.DailyTargets.Fat)
	if p.TargetWeight != nil {
		fmt.Fprintf(w, "target weight\t%.1f kg\n", *p.TargetWeight)
	}
	_ = w.Flush()
}

func renderJournalDay(cmd *cobra.Command, day *model.JournalDay) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "journal for %s\n", day.Date)

	w := newTabWriter(cmd)
	for _, m := range day.Meals {
		slot := "untyped"
		if m.MealType != nil {
			slot = string(*m.MealType)
		}
		fmt.Fprintf(w, "%d\t%s\t%.0f kcal\t%d foods\n", m.ID, slot, m.TotalCalories, m.FoodsCount)
	}
	_ = w.Flush()

	fmt.Fprintf(out, "consumed: %.0f kcal over %d meals\n",
		day.Consumed.TotalCalories, day.Consumed.TotalMeals)
	if day.Goals != nil {
		fmt.Fprintf(out, "goal: %.0f kcal\n", day.Goals.Calories)
	}
	if day.GoalStatus != nil {
		fmt.Fprintf(out, "status: calories %s, proteins %s, carbs %s, fat %s, overall %s\n",
			day.GoalStatus.Calories, day.GoalStatus.Proteins, day.GoalStatus.Carbs,
			day.GoalStatus.Fat, day.GoalStatus.Overall)
	}
}

var statusMarks = map[model.GoalStatus]string{
	model.StatusReached:          "+",
	model.StatusPartiallyReached: "~",
	model.StatusNotReached:       "-",
	model.StatusNoData:           ".",
}

func renderJournalMonth(cmd *cobra.Command, m *model.JournalMonth, year, month int) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%04d-%02d  (+ reached, ~ partial, - missed, . no data)\n", year, month)

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == time.Month(month); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		fmt.Fprintf(out, "%s %s\n", date, statusMarks[m.StatusFor(date)])
	}
}

func renderMeal(cmd *cobra.Command, m *model.ScannedMeal) {
	out := cmd.OutOrStdout()
	slot := "untyped"
	if m.MealType != nil {
		slot = string(*m.MealType)
	}
	fmt.Fprintf(out, "meal %d (%s), %.0f kcal, %d foods\n", m.ID, slot, m.TotalCalories, m.FoodsCount)

	w := newTabWriter(cmd)
	for i, f := range m.FoodsDetected {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.0f kcal\tP %.1f\tC %.1f\tF %.1f\t%s\n",
			i, f.Name, f.QuantityDisplay,
			f.Nutrition.EnergyKcal, f.Nutrition.Proteins, f.Nutrition.Carbohydrates, f.Nutrition.Fat,
			f.Confidence)
	}
	_ = w.Flush()

	if m.Notes != nil && *m.Notes != "" {
		fmt.Fprintf(out, "notes: %s\n", *m.Notes)
	}
}

func renderMealHistory(cmd *cobra.Command, page *mealHistoryPage) {
	w := newTabWriter(cmd)
	for _, m := range page.Items {
		slot := "untyped"
		if m.MealType != nil {
			slot = string(*m.MealType)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.0f kcal\t%d foods\n",
			m.ID, m.ScannedAt, slot, m.TotalCalories, m.FoodsCount)
	}
	_ = w.Flush()
	if page.Meta != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d, %d meals total\n",
			page.Meta.CurrentPage, page.Meta.LastPage, page.Meta.Total)
	}
}

func renderDailyStats(cmd *cobra.Command, s *model.DailyStatistics) {
	w := newTabWriter(cmd)
	fmt.Fprintf(w, "meals\t%d\n", s.TotalMeals)
	fmt.Fprintf(w, "calories\t%.0f kcal\n", s.TotalCalories)
	fmt.Fprintf(w, "proteins\t%.1f g\n", s.TotalProteins)
	fmt.Fprintf(w, "carbohydrates\t%.1f g\n", s.TotalCarbohydrates)
	fmt.Fprintf(w, "fat\t%.1f g\n", s.TotalFat)
	fmt.Fprintf(w, "avg per meal\t%.0f kcal\n", s.AverageCaloriesPerMeal)
	_ = w.Flush()
}

func renderWeeklyStats(cmd *cobra.Command, s *model.WeeklyStatistics) {
	renderDailyStats(cmd, &s.DailyStatistics)
	fmt.Fprintf(cmd.OutOrStdout(), "days with meals\t%d\n", s.DaysCount)
}

func renderProduct(cmd *cobra.Command, p *model.ScannedProduct) {
	w := newTabWriter(cmd)
	fmt.Fprintf(w, "product\t%s\n", p.ProductName)
	if p.Brands != "" {
		fmt.Fprintf(w, "brand\t%s\n", p.Brands)
	}
	fmt.Fprintf(w, "barcode\t%s\n", p.Barcode)
	if p.NutriscoreGrade != "" {
		fmt.Fprintf(w, "nutriscore\t%s\n", p.NutriscoreGrade)
	}
	if p.NovaGroup > 0 {
		fmt.Fprintf(w, "nova group\t%d\n", p.NovaGroup)
	}
	fmt.Fprintf(w, "per 100g\t%.0f kcal, P %.1f, C %.1f, F %.1f\n",
		p.Nutriments.EnergyKcal, p.Nutriments.Proteins, p.Nutriments.Carbohydrates, p.Nutriments.Fat)
	if p.Allergens != "" {
		fmt.Fprintf(w, "allergens\t%s\n", p.Allergens)
	}
	_ = w.Flush()
}

func renderProductHistory(cmd *cobra.Command, page *productHistoryPage) {
	w := newTabWriter(cmd)
	for _, p := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.ScannedAt, p.Barcode, p.ProductName)
	}
	_ = w.Flush()
	if page.Meta != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d, %d scans total\n",
			page.Meta.CurrentPage, page.Meta.LastPage, page.Meta.Total)
	}
}

func renderScanStats(cmd *cobra.Command, s *model.ScanStatistics) {
	w := newTabWriter(cmd)
	fmt.Fprintf(w, "total\t%d\n", s.TotalScans)
	fmt.Fprintf(w, "this month\t%d\n", s.ScansThisMonth)
	fmt.Fprintf(w, "this week\t%d\n", s.ScansThisWeek)
	fmt.Fprintf(w, "today\t%d\n", s.ScansToday)
	_ = w.Flush()
}
