package model

// Nutriments are per-100g values as reported by the packaged-food database.
type Nutriments struct {
	EnergyKcal    float64 `json:"energy_kcal"`
	EnergyKj      float64 `json:"energy_kj"`
	Proteins      float64 `json:"proteins"`
	Carbohydrates float64 `json:"carbohydrates"`
	Sugars        float64 `json:"sugars"`
	Fat           float64 `json:"fat"`
	SaturatedFat  float64 `json:"saturated_fat"`
	Fiber         float64 `json:"fiber"`
	Sodium        float64 `json:"sodium"`
	Salt          float64 `json:"salt"`
}

// ScannedProduct is a barcode lookup result. Read-only on the client.
type ScannedProduct struct {
	ID              int64      `json:"id"`
	Barcode         string     `json:"barcode"`
	ProductName     string     `json:"product_name"`
	Brands          string     `json:"brands"`
	Quantity        string     `json:"quantity"`
	ImageURL        string     `json:"image_url"`
	ImageSmallURL   string     `json:"image_small_url"`
	NutriscoreGrade string     `json:"nutriscore_grade"`
	Nutriments      Nutriments `json:"nutriments"`
	IngredientsText string     `json:"ingredients_text"`
	Allergens       string     `json:"allergens"`
	AllergensTags   []string   `json:"allergens_tags"`
	Labels          string     `json:"labels"`
	LabelsTags      []string   `json:"labels_tags"`
	Categories      string     `json:"categories"`
	ServingSize     string     `json:"serving_size"`
	NovaGroup       int        `json:"nova_group"`
	EcoscoreGrade   string     `json:"ecoscore_grade"`
	ScannedAt       string     `json:"scanned_at"`
	CreatedAt       string     `json:"created_at"`
}

// ScanStatistics counts past product scans over a few windows.
type ScanStatistics struct {
	TotalScans     int `json:"total_scans"`
	ScansThisMonth int `json:"scans_this_month"`
	ScansThisWeek  int `json:"scans_this_week"`
	ScansToday     int `json:"scans_today"`
}
