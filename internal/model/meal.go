package model

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// FoodNutrition carries the nutrition fields the backend reports per food and
// per meal. All values are absolute for the stated quantity, not per-100g.
type FoodNutrition struct {
	EnergyKcal    float64 `json:"energy_kcal"`
	Proteins      float64 `json:"proteins"`
	Carbohydrates float64 `json:"carbohydrates"`
	Sugars        float64 `json:"sugars"`
	Fat           float64 `json:"fat"`
	SaturatedFat  float64 `json:"saturated_fat"`
	Fiber         float64 `json:"fiber"`
	Sodium        float64 `json:"sodium"`
}

// DetectedFood is one AI-detected item of a scanned meal, with the backend's
// nutrition estimate for the detected quantity.
type DetectedFood struct {
	Name                 string          `json:"name"`
	Type                 string          `json:"type"`
	QuantityDisplay      string          `json:"quantity_display"`
	QuantityValue        float64         `json:"quantity_value"`
	QuantityUnit         string          `json:"quantity_unit"`
	EstimatedWeightGrams float64         `json:"estimated_weight_grams"`
	Confidence           ConfidenceLevel `json:"confidence"`
	Nutrition            FoodNutrition   `json:"nutrition"`
}

// ScannedMeal is the result of a meal photo analysis, locally editable in the
// review screen before being committed to the journal.
type ScannedMeal struct {
	ID               int64          `json:"id"`
	ImageURL         string         `json:"image_url"`
	ScannedAt        string         `json:"scanned_at"`
	MealType         *MealType      `json:"meal_type"`
	Notes            *string        `json:"notes"`
	FoodsDetected    []DetectedFood `json:"foods_detected"`
	NutritionSummary FoodNutrition  `json:"nutrition_summary"`
	TotalCalories    float64        `json:"total_calories"`
	FoodsCount       int            `json:"foods_count"`
	AnalysisNotes    *string        `json:"analysis_notes"`
}

// MealHistoryItem is the trimmed shape used by the paginated history listing.
type MealHistoryItem struct {
	ID            int64     `json:"id"`
	ImageURL      string    `json:"image_url"`
	ScannedAt     string    `json:"scanned_at"`
	MealType      *MealType `json:"meal_type"`
	TotalCalories float64   `json:"total_calories"`
	FoodsCount    int       `json:"foods_count"`
}

// PageMeta is the backend's pagination envelope.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// UpdateMealData is the payload for saving review-screen edits.
type UpdateMealData struct {
	FoodsDetected []DetectedFood `json:"foods_detected,omitempty"`
	MealType      *MealType      `json:"meal_type,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
}

// ManualMealFood is one entry of a manually added meal (no photo scan).
type ManualMealFood struct {
	Name      string        `json:"name"`
	Quantity  float64       `json:"quantity"`
	Unit      string        `json:"unit"`
	Nutrition FoodNutrition `json:"nutrition"`
}

// AddManualMealData is the payload for POST /meals/add-manual.
type AddManualMealData struct {
	MealName string           `json:"meal_name"`
	MealType *MealType        `json:"meal_type,omitempty"`
	Notes    *string          `json:"notes,omitempty"`
	Foods    []ManualMealFood `json:"foods"`
}

// DailyStatistics aggregates a day's meals.
type DailyStatistics struct {
	TotalMeals             int     `json:"total_meals"`
	TotalCalories          float64 `json:"total_calories"`
	TotalProteins          float64 `json:"total_proteins"`
	TotalCarbohydrates     float64 `json:"total_carbohydrates"`
	TotalFat               float64 `json:"total_fat"`
	AverageCaloriesPerMeal float64 `json:"average_calories_per_meal"`
}

// WeeklyStatistics extends the daily aggregate with the number of days that
// had at least one meal.
type WeeklyStatistics struct {
	DailyStatistics
	DaysCount int `json:"days_count"`
}
