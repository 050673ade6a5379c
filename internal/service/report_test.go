package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/frediet/frediet/internal/model"
)

func newTestReportService(t *testing.T) (*ReportService, *mockMealRepo) {
	t.Helper()
	repo := newMockMealRepo()
	return NewReportService(repo, testLogger()), repo
}

// seedDays plants one meal per day for n consecutive days of a 99-day
// synthetic month, newest date = day n. Dates only need to be pattern-valid
// and lexicographically ordered, not real calendar dates.
func seedDays(t *testing.T, repo *mockMealRepo, n int) {
	t.Helper()
	if n > 99 {
		t.Fatalf("seedDays supports at most 99 days, got %d", n)
	}
	for day := 1; day <= n; day++ {
		repo.nextID++
		repo.meals[repo.nextID] = &model.Meal{
			ID:       repo.nextID,
			UserID:   1,
			Proteins: 20.0,
			Calories: 500,
			MealDate: fmt.Sprintf("2024-01-%02d", day),
			MealTime: "12:00",
		}
	}
}

func TestRangeSummary_EmptyRange(t *testing.T) {
	svc, _ := newTestReportService(t)

	sum, err := svc.RangeSummary(context.Background(), 1, "2024-01-01", "2024-01-31", 1, 10)
	if err != nil {
		t.Fatalf("RangeSummary() error = %v", err)
	}

	// Zero everything, zero pages — and in particular no division by zero.
	if sum.TotalDays != 0 || sum.TotalPages != 0 {
		t.Errorf("TotalDays=%d TotalPages=%d, want 0 0", sum.TotalDays, sum.TotalPages)
	}
	if sum.AvgCalories != 0 || sum.AvgProteins != 0 {
		t.Errorf("averages = (%v, %v), want zeros", sum.AvgCalories, sum.AvgProteins)
	}
	if len(sum.Days) != 0 {
		t.Errorf("Days has %d entries, want 0", len(sum.Days))
	}
}

func TestRangeSummary_AveragesOverDays(t *testing.T) {
	svc, repo := newTestReportService(t)

	// Day 1: two meals (800 kcal, 40 g). Day 2: one meal (500 kcal, 20 g).
	seedDays(t, repo, 2)
	repo.nextID++
	repo.meals[repo.nextID] = &model.Meal{
		ID: repo.nextID, UserID: 1, Proteins: 20.0, Calories: 300,
		MealDate: "2024-01-01", MealTime: "19:00",
	}

	sum, err := svc.RangeSummary(context.Background(), 1, "2024-01-01", "2024-01-31", 1, 10)
	if err != nil {
		t.Fatalf("RangeSummary() error = %v", err)
	}

	if sum.TotalDays != 2 {
		t.Fatalf("TotalDays = %d, want 2", sum.TotalDays)
	}
	if sum.TotalCalories != 1300 {
		t.Errorf("TotalCalories = %v, want 1300", sum.TotalCalories)
	}
	// Mean over DAYS (1300/2), not over the three meals.
	if sum.AvgCalories != 650 {
		t.Errorf("AvgCalories = %v, want 650", sum.AvgCalories)
	}
	if sum.AvgProteins != 30 {
		t.Errorf("AvgProteins = %v, want 30", sum.AvgProteins)
	}
}

// The canonical pagination property: 65 days at 30 per page → 3 pages;
// page 3 holds the remaining 5; page 4 is empty but not an error.
func TestRangeSummary_Pagination(t *testing.T) {
	svc, repo := newTestReportService(t)
	seedDays(t, repo, 65)

	cases := []struct {
		page     int
		wantLen  int
	}{
		{1, 30},
		{2, 30},
		{3, 5},
		{4, 0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("page%d", tc.page), func(t *testing.T) {
			sum, err := svc.RangeSummary(context.Background(), 1, "2024-01-01", "2024-01-99", tc.page, 30)
			if err != nil {
				t.Fatalf("RangeSummary() error = %v", err)
			}
			if sum.TotalPages != 3 {
				t.Errorf("TotalPages = %d, want 3", sum.TotalPages)
			}
			if sum.TotalDays != 65 {
				t.Errorf("TotalDays = %d, want 65", sum.TotalDays)
			}
			if len(sum.Days) != tc.wantLen {
				t.Errorf("page %d has %d days, want %d", tc.page, len(sum.Days), tc.wantLen)
			}
		})
	}
}

// Pages are contiguous slices of the date-descending full list.
func TestRangeSummary_PageContents(t *testing.T) {
	svc, repo := newTestReportService(t)
	seedDays(t, repo, 25)

	page1, err := svc.RangeSummary(context.Background(), 1, "2024-01-01", "2024-01-99", 1, 10)
	if err != nil {
		t.Fatalf("RangeSummary() error = %v", err)
	}
	page3, err := svc.RangeSummary(context.Background(), 1, "2024-01-01", "2024-01-99", 3, 10)
	if err != nil {
		t.Fatalf("RangeSummary() error = %v", err)
	}

	// Newest first: page 1 starts at day 25.
	if page1.Days[0].Date != "2024-01-25" {
		t.Errorf("page1 first date = %q, want 2024-01-25", page1.Days[0].Date)
	}
	if page1.Days[9].Date != "2024-01-16" {
		t.Errorf("page1 last date = %q, want 2024-01-16", page1.Days[9].Date)
	}
	// Page 3 holds the oldest 5 days.
	if len(page3.Days) != 5 {
		t.Fatalf("page3 has %d days, want 5", len(page3.Days))
	}
	if page3.Days[0].Date != "2024-01-05" || page3.Days[4].Date != "2024-01-01" {
		t.Errorf("page3 spans %q..%q, want 2024-01-05..2024-01-01",
			page3.Days[0].Date, page3.Days[4].Date)
	}
}

// Exact multiple of the page size must not create a phantom extra page.
func TestRangeSummary_ExactPageBoundary(t *testing.T) {
	svc, repo := newTestReportService(t)
	seedDays(t, repo, 30)

	sum, err := svc.RangeSummary(context.Background(), 1, "2024-01-01", "2024-01-99", 1, 10)
	if err != nil {
		t.Fatalf("RangeSummary() error = %v", err)
	}
	if sum.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3 for 30 days at 10/page", sum.TotalPages)
	}
}

func TestRangeSummary_NormalizesPageAndSize(t *testing.T) {
	svc, repo := newTestReportService(t)
	seedDays(t, repo, 15)

	// page 0 and a non-positive size fall back to page 1 and the default.
	sum, err := svc.RangeSummary(context.Background(), 1, "2024-01-01", "2024-01-99", 0, 0)
	if err != nil {
		t.Fatalf("RangeSummary() error = %v", err)
	}
	if sum.Page != 1 || sum.PerPage != DefaultPageSize {
		t.Errorf("Page=%d PerPage=%d, want 1 %d", sum.Page, sum.PerPage, DefaultPageSize)
	}
	if len(sum.Days) != DefaultPageSize {
		t.Errorf("got %d days, want %d", len(sum.Days), DefaultPageSize)
	}
}

// Corrupted stored dates are dropped from the aggregate set with a warning,
// and are excluded from totals, averages, and the page count alike.
func TestRangeSummary_SkipsCorruptedDates(t *testing.T) {
	svc, repo := newTestReportService(t)
	seedDays(t, repo, 3)
	repo.nextID++
	repo.meals[repo.nextID] = &model.Meal{
		ID: repo.nextID, UserID: 1, Proteins: 99.0, Calories: 9999,
		// Sorts inside the queried range but fails the date pattern.
		MealDate: "2024-01-3X", MealTime: "12:00",
	}

	sum, err := svc.RangeSummary(context.Background(), 1, "2024-01-01", "2024-01-99", 1, 10)
	if err != nil {
		t.Fatalf("RangeSummary() error = %v (corruption must not fail the request)", err)
	}
	if sum.TotalDays != 3 {
		t.Errorf("TotalDays = %d, want 3 (corrupt day excluded)", sum.TotalDays)
	}
	if sum.TotalCalories != 1500 {
		t.Errorf("TotalCalories = %v, want 1500 (corrupt day's calories excluded)", sum.TotalCalories)
	}
}

func TestRangeSummary_ScopedToUser(t *testing.T) {
	svc, repo := newTestReportService(t)
	seedDays(t, repo, 3)
	repo.nextID++
	repo.meals[repo.nextID] = &model.Meal{
		ID: repo.nextID, UserID: 2, Proteins: 50.0, Calories: 2000,
		MealDate: "2024-01-02", MealTime: "12:00",
	}

	sum, err := svc.RangeSummary(context.Background(), 1, "2024-01-01", "2024-01-99", 1, 10)
	if err != nil {
		t.Fatalf("RangeSummary() error = %v", err)
	}
	if sum.TotalCalories != 1500 {
		t.Errorf("TotalCalories = %v, want 1500 (other user's meals excluded)", sum.TotalCalories)
	}
}
