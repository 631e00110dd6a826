package model

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type BodyType string

const (
	BodyTypeEctomorph BodyType = "ectomorph"
	BodyTypeMesomorph BodyType = "mesomorph"
	BodyTypeEndomorph BodyType = "endomorph"
)

type Goal string

const (
	GoalBulk     Goal = "bulk"
	GoalCut      Goal = "cut"
	GoalRecomp   Goal = "recomp"
	GoalMaintain Goal = "maintain"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

type BMICategory string

const (
	BMIUnderweight BMICategory = "underweight"
	BMINormal      BMICategory = "normal"
	BMIOverweight  BMICategory = "overweight"
	BMIObese       BMICategory = "obese"
)

// DailyTargets are the server-computed nutrition targets. The client never
// recomputes these; they are rendered verbatim.
type DailyTargets struct {
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// UserProfile is the nutrition profile built during onboarding. BMI, its
// category, daily targets and the weight delta are derived by the backend.
type UserProfile struct {
	ID                 int64         `json:"id"`
	UserID             int64         `json:"user_id"`
	Gender             Gender        `json:"gender"`
	Age                int           `json:"age"`
	Weight             float64       `json:"weight"`
	Height             float64       `json:"height"`
	BMI                float64       `json:"bmi"`
	BMICategory        BMICategory   `json:"bmi_category"`
	BodyType           BodyType      `json:"body_type"`
	Goal               Goal          `json:"goal"`
	ActivityLevel      ActivityLevel `json:"activity_level"`
	DailyTargets       DailyTargets  `json:"daily_targets"`
	TargetWeight       *float64      `json:"target_weight"`
	WeightDifference   *float64      `json:"weight_difference"`
	DietaryPreferences []string      `json:"dietary_preferences"`
	CreatedAt          string        `json:"created_at"`
	UpdatedAt          string        `json:"updated_at"`
}

// CreateProfileData is the onboarding wizard submission payload.
type CreateProfileData struct {
	Gender             Gender        `json:"gender"`
	Age                int           `json:"age"`
	Weight             float64       `json:"weight"`
	Height             float64       `json:"height"`
	BodyType           BodyType      `json:"body_type"`
	Goal               Goal          `json:"goal"`
	ActivityLevel      ActivityLevel `json:"activity_level"`
	TargetWeight       *float64      `json:"target_weight,omitempty"`
	DietaryPreferences []string      `json:"dietary_preferences,omitempty"`
}

// UpdateProfileData is a partial profile update; nil fields are left untouched
// by the backend.
type UpdateProfileData struct {
	Gender             *Gender        `json:"gender,omitempty"`
	Age                *int           `json:"age,omitempty"`
	Weight             *float64       `json:"weight,omitempty"`
	Height             *float64       `json:"height,omitempty"`
	BodyType           *BodyType      `json:"body_type,omitempty"`
	Goal               *Goal          `json:"goal,omitempty"`
	ActivityLevel      *ActivityLevel `json:"activity_level,omitempty"`
	TargetWeight       *float64       `json:"target_weight,omitempty"`
	DietaryPreferences []string       `json:"dietary_preferences,omitempty"`
}
