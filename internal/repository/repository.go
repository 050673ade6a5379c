// Package repository defines the storage interfaces the service layer
// programs against. The sqlite subpackage provides the real implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/frediet/frediet/internal/model"
)

// UserRepository is the persistence capability for user accounts.
type UserRepository interface {
	// CreateUser inserts a new account and returns its id.
	// A duplicate username surfaces as apperror.ErrConflict.
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)

	// GetUserByUsername returns the account for a username,
	// or apperror.ErrNotFound if none exists.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// GetUserByID returns the account for an id,
	// or apperror.ErrNotFound if none exists.
	GetUserByID(ctx context.Context, id int64) (*model.User, error)

	// DeleteUser removes an account. The schema cascades the delete to
	// every meal the user owns.
	DeleteUser(ctx context.Context, id int64) error
}

// MealRepository is the persistence capability for meals.
// Every read and write is scoped to the owning user — a meal id alone is
// never enough to touch someone else's data.
type MealRepository interface {
	// CreateMeal inserts a meal and fills in its generated id.
	CreateMeal(ctx context.Context, meal *model.Meal) error

	// GetMeal returns the meal with the given id if it belongs to userID,
	// apperror.ErrNotFound otherwise (absent and not-owned are
	// indistinguishable to the caller).
	GetMeal(ctx context.Context, id, userID int64) (*model.Meal, error)

	// MealsForDate returns the user's meals on one date,
	// ordered by meal_time descending.
	MealsForDate(ctx context.Context, userID int64, date string) ([]model.Meal, error)

	// DeleteMeal removes the meal if it belongs to userID,
	// apperror.ErrNotFound otherwise.
	DeleteMeal(ctx context.Context, id, userID int64) error

	// DailyTotals sums calories and proteins for one user and date.
	// Both sums are zero (never NULL) when no meals exist.
	DailyTotals(ctx context.Context, userID int64, date string) (calories, proteins float64, err error)

	// DateAggregates returns per-date sums and meal counts for dates in
	// [start, end] inclusive, grouped by date, ordered date descending.
	DateAggregates(ctx context.Context, userID int64, start, end string) ([]model.DayAggregate, error)
}
