package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frediet/frediet/internal/apperror"
	"github.com/frediet/frediet/internal/model"
	"github.com/frediet/frediet/internal/repository"
	"github.com/frediet/frediet/internal/validate"
)

// MealService handles logging, listing, and deleting meals.
type MealService struct {
	meals  repository.MealRepository
	logger *slog.Logger
}

func NewMealService(meals repository.MealRepository, logger *slog.Logger) *MealService {
	return &MealService{meals: meals, logger: logger}
}

// MealEntry is a meal decorated for display: FormattedTime is the clock time
// rendered for humans ("8:30AM"); when the stored string doesn't parse as a
// clock time, the raw string is carried through unchanged.
type MealEntry struct {
	model.Meal
	FormattedTime string `json:"formatted_time"`
}

// Totals is one day's calorie and protein sums.
type Totals struct {
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
}

// AddResult is what a successful AddMeal returns: the created meal and the
// day's updated totals, so a client can refresh its view without refetching.
type AddResult struct {
	Meal   MealEntry
	Totals Totals
}

// DeleteResult echoes the removed meal's macros plus the day's new totals.
type DeleteResult struct {
	Proteins float64
	Calories int
	Totals   Totals
}

// AddMeal validates the raw form inputs, stores the meal, and returns it
// with the owning day's updated totals.
//
// All four fields are validated before anything is stored, and every
// problem is reported at once via the field-error map — a client fixing a
// form should not have to play whack-a-mole one field per submit.
func (s *MealService) AddMeal(ctx context.Context, userID int64, proteinsInput, caloriesInput, date, tm string) (*AddResult, error) {
	proteins, calories, errs := validate.MealFields(proteinsInput, caloriesInput)
	errs.Merge(validate.DateTime(date, tm))
	if len(errs) > 0 {
		return nil, apperror.ValidationFailed(errs)
	}

	meal := &model.Meal{
		UserID:   userID,
		Proteins: proteins,
		Calories: calories,
		MealDate: date,
		MealTime: tm,
	}
	if err := s.meals.CreateMeal(ctx, meal); err != nil {
		s.logger.Error("failed to save meal",
			slog.Int64("userID", userID),
			slog.String("date", date),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("meal logged",
		slog.Int64("mealID", meal.ID),
		slog.Int64("userID", userID),
		slog.String("date", date),
	)

	totals, err := s.DailyTotals(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	return &AddResult{
		Meal:   MealEntry{Meal: *meal, FormattedTime: formatMealTime(meal.MealTime)},
		Totals: totals,
	}, nil
}

// DeleteMeal removes one of the user's meals and reports the day's new
// totals. A meal that doesn't exist — or belongs to someone else — yields
// ErrNotFound either way.
func (s *MealService) DeleteMeal(ctx context.Context, userID, mealID int64) (*DeleteResult, error) {
	meal, err := s.meals.GetMeal(ctx, mealID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.meals.DeleteMeal(ctx, mealID, userID); err != nil {
		s.logger.Error("failed to delete meal",
			slog.Int64("mealID", mealID),
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("meal deleted",
		slog.Int64("mealID", mealID),
		slog.Int64("userID", userID),
	)

	totals, err := s.DailyTotals(ctx, userID, meal.MealDate)
	if err != nil {
		return nil, err
	}

	return &DeleteResult{
		Proteins: meal.Proteins,
		Calories: meal.Calories,
		Totals:   totals,
	}, nil
}

// MealsForDate returns the user's meals on one date, newest first.
//
// SKIP-AND-CONTINUE: a stored meal_time that no longer matches "HH:MM" is
// data corruption, not user error. The offending row is dropped from the
// result with a warning, and the rest of the request proceeds normally.
func (s *MealService) MealsForDate(ctx context.Context, userID int64, date string) ([]MealEntry, error) {
	meals, err := s.meals.MealsForDate(ctx, userID, date)
	if err != nil {
		s.logger.Error("failed to list meals",
			slog.Int64("userID", userID),
			slog.String("date", date),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing meals for %s: %w", date, err)
	}

	entries := make([]MealEntry, 0, len(meals))
	for _, m := range meals {
		if !validate.ValidTime(m.MealTime) {
			s.logger.Warn("skipping meal with corrupted time",
				slog.Int64("mealID", m.ID),
				slog.String("mealTime", m.MealTime),
			)
			continue
		}
		entries = append(entries, MealEntry{Meal: m, FormattedTime: formatMealTime(m.MealTime)})
	}

	return entries, nil
}

// DailyTotals returns the day's calorie and protein sums, zero when the
// user logged nothing.
func (s *MealService) DailyTotals(ctx context.Context, userID int64, date string) (Totals, error) {
	calories, proteins, err := s.meals.DailyTotals(ctx, userID, date)
	if err != nil {
		s.logger.Error("failed to sum daily totals",
			slog.Int64("userID", userID),
			slog.String("date", date),
			slog.String("error", err.Error()),
		)
		return Totals{}, fmt.Errorf("summing totals for %s: %w", date, err)
	}
	return Totals{Calories: calories, Proteins: proteins}, nil
}

// formatMealTime renders a stored "HH:MM" string in kitchen format, e.g.
// "8:30AM". The stored pattern admits values like "29:00" that aren't real
// clock times; those come back verbatim rather than failing the request.
func formatMealTime(tm string) string {
	parsed, err := time.Parse("15:04", tm)
	if err != nil {
		return tm
	}
	return parsed.Format(time.Kitchen)
}
