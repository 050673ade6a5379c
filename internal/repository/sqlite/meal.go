package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/frediet/frediet/internal/apperror"
	"github.com/frediet/frediet/internal/model"
	"github.com/frediet/frediet/internal/repository"
)

// Compile-time check that *DB implements repository.MealRepository.
var _ repository.MealRepository = (*DB)(nil)

// CreateMeal inserts a meal and fills in its generated id.
//
// Validation has already happened at the service layer; if a value still
// trips a CHECK constraint here, that is a bug upstream, and the caller gets
// a generic storage error rather than the constraint text.
func (db *DB) CreateMeal(ctx context.Context, meal *model.Meal) error {
	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO meals (user_id, proteins, calories, meal_date, meal_time)
		 VALUES (?, ?, ?, ?, ?)`,
		meal.UserID, meal.Proteins, meal.Calories, meal.MealDate, meal.MealTime,
	)
	if err != nil {
		return apperror.Storage("unable to save meal", fmt.Errorf("sqlite: inserting meal: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperror.Storage("unable to save meal", fmt.Errorf("sqlite: reading new meal id: %w", err))
	}
	meal.ID = id

	return nil
}

// GetMeal returns the meal with the given id, scoped to its owner.
// A meal that exists but belongs to another user is reported exactly like a
// meal that doesn't exist at all.
func (db *DB) GetMeal(ctx context.Context, id, userID int64) (*model.Meal, error) {
	var m model.Meal

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, proteins, calories, meal_date, meal_time
		 FROM meals
		 WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&m.ID, &m.UserID, &m.Proteins, &m.Calories, &m.MealDate, &m.MealTime)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("meal", id)
		}
		return nil, fmt.Errorf("sqlite: getting meal %d: %w", id, err)
	}

	return &m, nil
}

// MealsForDate returns the user's meals on one date, newest time first.
func (db *DB) MealsForDate(ctx context.Context, userID int64, date string) ([]model.Meal, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, proteins, calories, meal_date, meal_time
		 FROM meals
		 WHERE user_id = ? AND meal_date = ?
		 ORDER BY meal_time DESC`,
		userID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing meals for %s: %w", date, err)
	}
	defer rows.Close()

	var meals []model.Meal
	for rows.Next() {
		var m model.Meal
		if err := rows.Scan(&m.ID, &m.UserID, &m.Proteins, &m.Calories, &m.MealDate, &m.MealTime); err != nil {
			return nil, fmt.Errorf("sqlite: scanning meal row: %w", err)
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating meals: %w", err)
	}

	return meals, nil
}

// DeleteMeal removes the meal if it belongs to userID.
// RowsAffected == 0 means absent or not owned — both map to ErrNotFound.
func (db *DB) DeleteMeal(ctx context.Context, id, userID int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM meals WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return apperror.Storage("unable to delete meal", fmt.Errorf("sqlite: deleting meal %d: %w", id, err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("meal", id)
	}

	return nil
}

// DailyTotals sums calories and proteins for one user and date.
// COALESCE turns the NULL that SUM produces on an empty set into 0, so the
// caller never sees a null total.
func (db *DB) DailyTotals(ctx context.Context, userID int64, date string) (float64, float64, error) {
	var calories, proteins float64

	err := db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(calories), 0), COALESCE(SUM(proteins), 0)
		 FROM meals
		 WHERE user_id = ? AND meal_date = ?`,
		userID, date,
	).Scan(&calories, &proteins)
	if err != nil {
		return 0, 0, fmt.Errorf("sqlite: summing totals for %s: %w", date, err)
	}

	return calories, proteins, nil
}

// DateAggregates returns per-date sums and counts over [start, end]
// inclusive, newest date first. BETWEEN on the ISO-8601 strings is correct
// because the format sorts lexicographically in date order.
func (db *DB) DateAggregates(ctx context.Context, userID int64, start, end string) ([]model.DayAggregate, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT meal_date, SUM(calories), SUM(proteins), COUNT(*)
		 FROM meals
		 WHERE user_id = ? AND meal_date BETWEEN ? AND ?
		 GROUP BY meal_date
		 ORDER BY meal_date DESC`,
		userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: aggregating %s..%s: %w", start, end, err)
	}
	defer rows.Close()

	var days []model.DayAggregate
	for rows.Next() {
		var d model.DayAggregate
		if err := rows.Scan(&d.Date, &d.Calories, &d.Proteins, &d.MealCount); err != nil {
			return nil, fmt.Errorf("sqlite: scanning aggregate row: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating aggregates: %w", err)
	}

	return days, nil
}
