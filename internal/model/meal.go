package model

// Meal is one logged entry of protein grams and calories at a specific
// date and time-of-day, owned by exactly one user.
//
// WHY STRINGS FOR DATE AND TIME?
// meal_date ("YYYY-MM-DD") and meal_time ("HH:MM") are stored as TEXT and kept
// as strings end to end. The storage contract is a digit pattern, not calendar
// validity — "2024-02-31" is a legal stored value. Converting to time.Time at
// the edges would either reject such values or silently normalise them; both
// would change observable behaviour. Handlers format the time for display
// only, falling back to the raw string when it doesn't parse as a clock time.
//
// Proteins is a float64 constrained to [0.0, 999.9] with exactly one decimal
// place; Calories is an int in [0, 9999]. Both are validated before they ever
// reach the database (the schema CHECK constraints are a second line of
// defence, not the primary one).
type Meal struct {
	ID       int64   `json:"id"`
	UserID   int64   `json:"-"`
	Proteins float64 `json:"proteins"`
	Calories int     `json:"calories"`
	MealDate string  `json:"meal_date"`
	MealTime string  `json:"meal_time"`
}

// DayAggregate is one day's worth of meals summed up: total calories, total
// proteins, and how many meals contributed. Produced by the range query
// (GROUP BY meal_date) and consumed by the range summary.
type DayAggregate struct {
	Date      string  `json:"date"`
	Calories  float64 `json:"calories"`
	Proteins  float64 `json:"proteins"`
	MealCount int     `json:"meal_count"`
}

// RangeSummary is the result of aggregating an inclusive date span:
// the requested page of per-day rows (date descending) plus overall totals
// and simple arithmetic means over days (not over meals).
//
// A span with no meals yields the zero value: no days, zero averages,
// zero pages. Page is 1-indexed; an out-of-range page has an empty Days
// slice but the totals still describe the whole span.
type RangeSummary struct {
	Days          []DayAggregate `json:"days"`
	TotalDays     int            `json:"total_days"`
	TotalCalories float64        `json:"total_calories"`
	TotalProteins float64        `json:"total_proteins"`
	AvgCalories   float64        `json:"avg_calories"`
	AvgProteins   float64        `json:"avg_proteins"`
	Page          int            `json:"page"`
	TotalPages    int            `json:"total_pages"`
	PerPage       int            `json:"per_page"`
}
