package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frediet/frediet/internal/auth"
	"github.com/frediet/frediet/internal/model"
	"github.com/frediet/frediet/internal/service"
	"github.com/frediet/frediet/internal/validate"
)

// PageHandler renders the authenticated HTML pages: the daily dashboard and
// the historical range view. Both sit behind the RequirePage guard, so a
// user id is always present in the context.
type PageHandler struct {
	authSvc   *service.AuthService
	meals     *service.MealService
	reports   *service.ReportService
	templates *Templates
	location  *time.Location
	logger    *slog.Logger
}

func NewPageHandler(
	authSvc *service.AuthService,
	meals *service.MealService,
	reports *service.ReportService,
	tmpl *Templates,
	location *time.Location,
	logger *slog.Logger,
) *PageHandler {
	return &PageHandler{
		authSvc:   authSvc,
		meals:     meals,
		reports:   reports,
		templates: tmpl,
		location:  location,
		logger:    logger,
	}
}

type dashboardData struct {
	Title         string
	Username      string
	Date          string
	CurrentTime   string
	Meals         []service.MealEntry
	TotalCalories float64
	TotalProteins float64
}

// HandleDashboard renders the meals and totals for one date.
//
// HTTP: GET /dashboard?date=YYYY-MM-DD
// The date defaults to "today" in the configured timezone. A date that
// fails the format check is a 400 — the parameter comes from our own links,
// so a bad one is a client bug, not a form to re-render.
func (h *PageHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	now := time.Now().In(h.location)

	date := r.URL.Query().Get("date")
	if date == "" {
		date = now.Format("2006-01-02")
	} else if !validate.ValidDate(date) {
		http.Error(w, "date must be in YYYY-MM-DD format", http.StatusBadRequest)
		return
	}

	user, err := h.authSvc.GetUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("dashboard: loading user", slog.Int64("userID", userID), slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	entries, err := h.meals.MealsForDate(r.Context(), userID, date)
	if err != nil {
		h.logger.Error("dashboard: listing meals", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	totals, err := h.meals.DailyTotals(r.Context(), userID, date)
	if err != nil {
		h.logger.Error("dashboard: summing totals", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.templates.render(w, "dashboard", dashboardData{
		Title:         "Dashboard",
		Username:      user.Username,
		Date:          date,
		CurrentTime:   now.Format("15:04"),
		Meals:         entries,
		TotalCalories: totals.Calories,
		TotalProteins: totals.Proteins,
	})
}

type rangeData struct {
	Title       string
	Username    string
	StartDate   string
	EndDate     string
	FieldErrors map[string]string
	Summary     *model.RangeSummary
	PrevPage    int
	NextPage    int
}

// HandleRange renders the paginated per-date summary for an inclusive span.
//
// HTTP: GET /range?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD&page=N
// With no dates the page shows just the query form. Malformed dates
// re-render the form with field errors. A page outside the result simply
// shows an empty table — never an error.
func (h *PageHandler) HandleRange(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	user, err := h.authSvc.GetUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("range: loading user", slog.Int64("userID", userID), slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	data := rangeData{
		Title:     "History",
		Username:  user.Username,
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	if data.StartDate == "" && data.EndDate == "" {
		h.templates.render(w, "range", data)
		return
	}

	if errs := validate.DateTime(data.StartDate, "00:00"); len(errs) > 0 {
		data.FieldErrors = map[string]string{"start_date": "date must be in YYYY-MM-DD format"}
	}
	if errs := validate.DateTime(data.EndDate, "00:00"); len(errs) > 0 {
		if data.FieldErrors == nil {
			data.FieldErrors = make(map[string]string)
		}
		data.FieldErrors["end_date"] = "date must be in YYYY-MM-DD format"
	}
	if len(data.FieldErrors) > 0 {
		h.templates.render(w, "range", data)
		return
	}

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	summary, err := h.reports.RangeSummary(r.Context(), userID,
		data.StartDate, data.EndDate, page, service.DefaultPageSize)
	if err != nil {
		h.logger.Error("range: summarising", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data.Summary = summary
	data.PrevPage = summary.Page - 1
	data.NextPage = summary.Page + 1
	h.templates.render(w, "range", data)
}
