// Package meal implements the review screen's local editing of a scanned
// meal: rescaling item quantities, removing items, and recomputing the meal
// aggregate, all without touching the backend until the user commits.
package meal

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nutriscan/nutriscan/internal/model"
)

var (
	// ErrMealTypeRequired is returned by Commit when no meal type is set.
	ErrMealTypeRequired = errors.New("meal type is required")

	// ErrInvalidQuantity is returned for zero or negative quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrNoSuchItem is returned for an out-of-range item index.
	ErrNoSuchItem = errors.New("no such item")
)

// ScaleNutrition rescales absolute nutrition values by ratio. Energy is
// rounded to a whole kilocalorie; every other field to one decimal, matching
// how the backend reports them.
func ScaleNutrition(n model.FoodNutrition, ratio float64) model.FoodNutrition {
	return model.FoodNutrition{
		EnergyKcal:    math.Round(n.EnergyKcal * ratio),
		Proteins:      round1(n.Proteins * ratio),
		Carbohydrates: round1(n.Carbohydrates * ratio),
		Sugars:        round1(n.Sugars * ratio),
		Fat:           round1(n.Fat * ratio),
		SaturatedFat:  round1(n.SaturatedFat * ratio),
		Fiber:         round1(n.Fiber * ratio),
		Sodium:        round1(n.Sodium * ratio),
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Editor holds a working copy of a scanned meal during review. Edits apply
// to the copy only; Commit produces the update payload for the API.
//
// Quantity rescaling always starts from the food as originally detected, so
// repeated edits of the same item never compound rounding error.
type Editor struct {
	meal     model.ScannedMeal
	foods    []model.DetectedFood
	original []model.DetectedFood
}

// NewEditor copies meal into a fresh editing session.
func NewEditor(m *model.ScannedMeal) *Editor {
	e := &Editor{meal: *m}
	e.foods = append([]model.DetectedFood(nil), m.FoodsDetected...)
	e.original = append([]model.DetectedFood(nil), m.FoodsDetected...)
	return e
}

// Items returns the current working list of foods.
func (e *Editor) Items() []model.DetectedFood {
	return e.foods
}

// SetQuantity changes item i's quantity to qty and linearly rescales its
// nutrition from the originally detected values.
func (e *Editor) SetQuantity(i int, qty float64) error {
	if i < 0 || i >= len(e.foods) {
		return ErrNoSuchItem
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	orig := e.original[i]
	if orig.QuantityValue <= 0 {
		return fmt.Errorf("item %q has no detected quantity: %w", orig.Name, ErrInvalidQuantity)
	}
	ratio := qty / orig.QuantityValue

	f := &e.foods[i]
	f.QuantityValue = qty
	f.QuantityDisplay = formatQuantity(qty, f.QuantityUnit)
	f.EstimatedWeightGrams = round1(orig.EstimatedWeightGrams * ratio)
	f.Nutrition = ScaleNutrition(orig.Nutrition, ratio)
	return nil
}

// RemoveItem deletes item i from the working list.
func (e *Editor) RemoveItem(i int) error {
	if i < 0 || i >= len(e.foods) {
		return ErrNoSuchItem
	}
	e.foods = append(e.foods[:i], e.foods[i+1:]...)
	e.original = append(e.original[:i], e.original[i+1:]...)
	return nil
}

// SetMealType assigns the meal slot. Commit requires one.
func (e *Editor) SetMealType(mt model.MealType) {
	e.meal.MealType = &mt
}

// MealType returns the currently assigned slot, or nil.
func (e *Editor) MealType() *model.MealType {
	return e.meal.MealType
}

// SetNotes replaces the user notes.
func (e *Editor) SetNotes(notes string) {
	e.meal.Notes = &notes
}

// Totals folds the nutrition of every remaining item into the meal
// aggregate. The aggregate is always recomputed from scratch, never patched
// incrementally, so item removal in any order yields the same result.
func (e *Editor) Totals() model.FoodNutrition {
	var sum model.FoodNutrition
	for _, f := range e.foods {
		sum.EnergyKcal += f.Nutrition.EnergyKcal
		sum.Proteins += f.Nutrition.Proteins
		sum.Carbohydrates += f.Nutrition.Carbohydrates
		sum.Sugars += f.Nutrition.Sugars
		sum.Fat += f.Nutrition.Fat
		sum.SaturatedFat += f.Nutrition.SaturatedFat
		sum.Fiber += f.Nutrition.Fiber
		sum.Sodium += f.Nutrition.Sodium
	}
	sum.EnergyKcal = math.Round(sum.EnergyKcal)
	sum.Proteins = round1(sum.Proteins)
	sum.Carbohydrates = round1(sum.Carbohydrates)
	sum.Sugars = round1(sum.Sugars)
	sum.Fat = round1(sum.Fat)
	sum.SaturatedFat = round1(sum.SaturatedFat)
	sum.Fiber = round1(sum.Fiber)
	sum.Sodium = round1(sum.Sodium)
	return sum
}

// Commit validates the session and produces the update payload. The meal
// type is mandatory; everything else may stay as detected.
func (e *Editor) Commit() (*model.UpdateMealData, error) {
	if e.meal.MealType == nil {
		return nil, ErrMealTypeRequired
	}
	return &model.UpdateMealData{
		FoodsDetected: append([]model.DetectedFood(nil), e.foods...),
		MealType:      e.meal.MealType,
		Notes:         e.meal.Notes,
	}, nil
}

func formatQuantity(qty float64, unit string) string {
	s := strconv.FormatFloat(qty, 'f', -1, 64)
	if unit == "" {
		return s
	}
	return strings.TrimSpace(s + " " + unit)
}
