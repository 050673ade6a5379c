package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frediet/frediet/internal/model"
	"github.com/frediet/frediet/internal/repository"
	"github.com/frediet/frediet/internal/validate"
)

// DefaultPageSize is how many days a range page shows by default.
const DefaultPageSize = 10

// ReportService computes range summaries: per-date aggregates over an
// inclusive date span, with overall averages and pagination.
type ReportService struct {
	meals  repository.MealRepository
	logger *slog.Logger
}

func NewReportService(meals repository.MealRepository, logger *slog.Logger) *ReportService {
	return &ReportService{meals: meals, logger: logger}
}

// RangeSummary aggregates the user's meals over [start, end] inclusive.
//
// The full per-date list (date descending) is fetched, corrupted dates are
// skipped, totals and day-averages are computed over the WHOLE list, and only
// then is the requested page sliced out. Averages are arithmetic means over
// days, not over meals: each day counts once regardless of how many meals
// it contains.
//
// Pagination: page is 1-indexed; totalPages = ceil(totalDays / pageSize);
// an out-of-range page yields an empty slice, never an error. An empty span
// yields the zero summary — no division by zero anywhere.
func (s *ReportService) RangeSummary(ctx context.Context, userID int64, start, end string, page, pageSize int) (*model.RangeSummary, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	rows, err := s.meals.DateAggregates(ctx, userID, start, end)
	if err != nil {
		s.logger.Error("failed to aggregate range",
			slog.Int64("userID", userID),
			slog.String("start", start),
			slog.String("end", end),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("aggregating %s..%s: %w", start, end, err)
	}

	// Tolerate corrupted stored dates: drop the row, warn, carry on.
	days := make([]model.DayAggregate, 0, len(rows))
	for _, d := range rows {
		if !validate.ValidDate(d.Date) {
			s.logger.Warn("skipping aggregate row with corrupted date",
				slog.Int64("userID", userID),
				slog.String("date", d.Date),
			)
			continue
		}
		days = append(days, d)
	}

	summary := &model.RangeSummary{
		Page:    page,
		PerPage: pageSize,
		Days:    []model.DayAggregate{},
	}

	if len(days) == 0 {
		return summary, nil
	}

	summary.TotalDays = len(days)
	for _, d := range days {
		summary.TotalCalories += d.Calories
		summary.TotalProteins += d.Proteins
	}
	summary.AvgCalories = summary.TotalCalories / float64(summary.TotalDays)
	summary.AvgProteins = summary.TotalProteins / float64(summary.TotalDays)

	// Ceiling division without floats.
	summary.TotalPages = (summary.TotalDays + pageSize - 1) / pageSize

	offset := (page - 1) * pageSize
	if offset < len(days) {
		endIdx := offset + pageSize
		if endIdx > len(days) {
			endIdx = len(days)
		}
		summary.Days = days[offset:endIdx]
	}

	return summary, nil
}
