package model

import "encoding/json"

// GoalStatus classifies how closely a day's consumption matched its targets.
// The three-valued enum is the canonical backend shape; the month view adds
// StatusNoData for dates without any journaled meal.
type GoalStatus string

const (
	StatusReached          GoalStatus = "reached"
	StatusPartiallyReached GoalStatus = "partially_reached"
	StatusNotReached       GoalStatus = "not_reached"
	StatusNoData           GoalStatus = "no_data"
)

// JournalConsumed totals the day's scanned meals.
type JournalConsumed struct {
	TotalCalories      float64 `json:"total_calories"`
	TotalProteins      float64 `json:"total_proteins"`
	TotalCarbohydrates float64 `json:"total_carbohydrates"`
	TotalFat           float64 `json:"total_fat"`
	TotalMeals         int     `json:"total_meals"`
}

// JournalGoals are the day's targets taken from the profile, if one exists.
type JournalGoals struct {
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbohydrates"`
	Fat      float64 `json:"fat"`
}

// JournalGoalStatus carries a per-metric classification for the day.
//
// Older backend snapshots reported boolean flags (calories_reached etc.)
// instead of the enum. Decoding accepts both shapes and normalizes booleans
// to reached/not_reached.
type JournalGoalStatus struct {
	Calories GoalStatus `json:"calories"`
	Proteins GoalStatus `json:"proteins"`
	Carbs    GoalStatus `json:"carbs"`
	Fat      GoalStatus `json:"fat"`
	Overall  GoalStatus `json:"overall"`
}

func (s *JournalGoalStatus) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	pick := func(enumKey, boolKey string) (GoalStatus, error) {
		if v, ok := raw[enumKey]; ok {
			var st GoalStatus
			if err := json.Unmarshal(v, &st); err == nil && st != "" {
				return st, nil
			}
		}
		if v, ok := raw[boolKey]; ok {
			var b bool
			if err := json.Unmarshal(v, &b); err != nil {
				return "", err
			}
			if b {
				return StatusReached, nil
			}
			return StatusNotReached, nil
		}
		return StatusNoData, nil
	}

	var err error
	if s.Calories, err = pick("calories", "calories_reached"); err != nil {
		return err
	}
	if s.Proteins, err = pick("proteins", "proteins_reached"); err != nil {
		return err
	}
	if s.Carbs, err = pick("carbs", "carbs_reached"); err != nil {
		return err
	}
	if s.Fat, err = pick("fat", "fat_reached"); err != nil {
		return err
	}
	if s.Overall, err = pick("overall", "overall_reached"); err != nil {
		return err
	}
	return nil
}

// JournalDay is the per-day record of consumption versus targets.
type JournalDay struct {
	Date       string             `json:"date"`
	Meals      []ScannedMeal      `json:"meals"`
	Consumed   JournalConsumed    `json:"consumed"`
	Goals      *JournalGoals      `json:"goals"`
	GoalStatus *JournalGoalStatus `json:"goal_status"`
}

// JournalMonth maps each date of a month to a coarse status for calendar
// rendering. Dates missing from the map are StatusNoData.
type JournalMonth struct {
	Year   int                   `json:"year"`
	Month  int                   `json:"month"`
	ByDate map[string]GoalStatus `json:"monthly_goal_status"`
}

// StatusFor returns the status for a YYYY-MM-DD date, defaulting to no_data.
func (m *JournalMonth) StatusFor(date string) GoalStatus {
	if st, ok := m.ByDate[date]; ok && st != "" {
		return st
	}
	return StatusNoData
}
