// Package validate contains the pure input-validation rules for meal and
// user fields.
//
// DESIGN: COLLECT, DON'T FAIL FAST.
// Every function returns a FieldErrors map rather than a single error, so a
// form with three bad inputs reports all three problems in one round trip.
// An empty map means the input passed.
//
// These functions are deliberately pure — no I/O, no logging, no context.
// The service layer decides what to do with the result; the functions here
// only answer "is this string an acceptable value for this field?".
package validate

import (
	"regexp"
	"strconv"
)

// Field bounds. The database schema repeats these as CHECK constraints, but
// validation here is the primary gate — a violating value must be rejected
// with a field error before it ever reaches the driver, never clamped.
const (
	MaxUsernameLength = 12
	MaxPasswordLength = 50
	MaxProteins       = 999.9
	MaxCalories       = 9999
)

// Compiled once at package init. MustCompile panics on a bad pattern, which
// is the right behaviour for a programmer error in a literal regexp.
var (
	// 1–3 integer digits, optional single fractional digit: "25.5", "100", "999.9"
	proteinsPattern = regexp.MustCompile(`^\d{1,3}(\.\d)?$`)
	// non-negative integer, no sign, no decimal point
	caloriesPattern = regexp.MustCompile(`^\d+$`)
	// digit-shape checks only — see DateTime for why calendar validity is NOT checked
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// FieldErrors maps an input field name to a human-readable message.
// The zero value (nil map) is valid and means "no errors"; use Add to set.
type FieldErrors map[string]string

// Add records a message for a field, allocating the map on first use.
func (fe *FieldErrors) Add(field, message string) {
	if *fe == nil {
		*fe = make(FieldErrors)
	}
	(*fe)[field] = message
}

// Merge copies every entry of other into fe. Later entries win on key
// collisions, but callers validate disjoint field sets so that never matters.
func (fe *FieldErrors) Merge(other FieldErrors) {
	for field, message := range other {
		fe.Add(field, message)
	}
}

// MealFields validates the proteins and calories inputs and parses them.
//
// proteins must match 1–3 integer digits with an optional single fractional
// digit and fall in [0.0, 999.9]. calories must be a plain non-negative
// integer string in [0, 9999]. The returned numbers are only meaningful for
// fields that have no entry in the error map.
func MealFields(proteinsInput, caloriesInput string) (float64, int, FieldErrors) {
	var errs FieldErrors

	var proteins float64
	if !proteinsPattern.MatchString(proteinsInput) {
		errs.Add("proteins", "proteins must be a number between 0 and 999.9 with at most one decimal place")
	} else {
		// The pattern guarantees ParseFloat succeeds; the range check still
		// matters because "999.9" is the largest 4-digit value but the
		// pattern alone admits nothing above it — keep the assertion anyway
		// so the bound lives in one obvious place.
		var err error
		proteins, err = strconv.ParseFloat(proteinsInput, 64)
		if err != nil || proteins < 0 || proteins > MaxProteins {
			errs.Add("proteins", "proteins must be a number between 0 and 999.9 with at most one decimal place")
		}
	}

	var calories int
	if !caloriesPattern.MatchString(caloriesInput) {
		errs.Add("calories", "calories must be a whole number between 0 and 9999")
	} else {
		var err error
		calories, err = strconv.Atoi(caloriesInput)
		if err != nil || calories < 0 || calories > MaxCalories {
			errs.Add("calories", "calories must be a whole number between 0 and 9999")
		}
	}

	return proteins, calories, errs
}

// DateTime validates the meal_date and meal_time inputs.
//
// DELIBERATELY PERMISSIVE: only the digit shape is checked, not calendar or
// clock validity — "2024-02-31" and "29:00" both pass. This matches the
// storage layer's GLOB constraints and is preserved intentionally; callers
// must not assume a passing check means the value is a real date or time.
func DateTime(date, tm string) FieldErrors {
	var errs FieldErrors

	if !datePattern.MatchString(date) {
		errs.Add("meal_date", "date must be in YYYY-MM-DD format")
	}
	if !timePattern.MatchString(tm) {
		errs.Add("meal_time", "time must be in HH:MM format")
	}

	return errs
}

// ValidDate reports whether a stored date string has the expected shape.
// Read paths use this to skip corrupted rows instead of failing the request.
func ValidDate(date string) bool {
	return datePattern.MatchString(date)
}

// ValidTime reports whether a stored time string has the expected shape.
func ValidTime(tm string) bool {
	return timePattern.MatchString(tm)
}

// UserFields validates registration credentials: length-only checks.
// Non-emptiness of the username is enforced by the storage constraint layer;
// the registration handler separately requires non-empty form inputs.
func UserFields(username, password string) FieldErrors {
	var errs FieldErrors

	if len(username) > MaxUsernameLength {
		errs.Add("username", "username must be 12 characters or fewer")
	}
	if len(password) > MaxPasswordLength {
		errs.Add("password", "password must be 50 characters or fewer")
	}

	return errs
}
