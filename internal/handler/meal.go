// Package handler contains the HTTP layer: thin orchestration between
// request parsing, the service layer, and response shaping. No business
// rules live here.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frediet/frediet/internal/auth"
	"github.com/frediet/frediet/internal/service"
)

// MealHandler serves the JSON meal API. Both endpoints echo the day's
// updated totals so the dashboard can refresh its numbers without a reload.
type MealHandler struct {
	meals  *service.MealService
	logger *slog.Logger
}

func NewMealHandler(meals *service.MealService, logger *slog.Logger) *MealHandler {
	return &MealHandler{meals: meals, logger: logger}
}

// mealPayload is the wire shape of a created meal. It deliberately omits
// meal_date and user_id — the client adding a meal already knows the date,
// and the owner is implied by the session.
type mealPayload struct {
	ID            int64   `json:"id"`
	Proteins      float64 `json:"proteins"`
	Calories      int     `json:"calories"`
	MealTime      string  `json:"meal_time"`
	FormattedTime string  `json:"formatted_time"`
}

type totalsPayload struct {
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
}

type addMealResponse struct {
	Success       bool          `json:"success"`
	Meal          mealPayload   `json:"meal"`
	UpdatedTotals totalsPayload `json:"updated_totals"`
}

type deleteMealResponse struct {
	Success       bool          `json:"success"`
	DeletedMeal   totalsPayload `json:"deleted_meal"`
	UpdatedTotals totalsPayload `json:"updated_totals"`
}

// HandleAddMeal logs a meal.
//
// HTTP: POST /api/meals with form fields proteins, calories, meal_date,
// meal_time. 200 with the created meal and updated totals; 400 with a
// field_errors map when validation fails; 500 on storage failure.
func (h *MealHandler) HandleAddMeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "valid authentication required"})
		return
	}

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed form body"})
		return
	}

	result, err := h.meals.AddMeal(r.Context(), userID,
		r.PostFormValue("proteins"),
		r.PostFormValue("calories"),
		r.PostFormValue("meal_date"),
		r.PostFormValue("meal_time"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, addMealResponse{
		Success: true,
		Meal: mealPayload{
			ID:            result.Meal.ID,
			Proteins:      result.Meal.Proteins,
			Calories:      result.Meal.Calories,
			MealTime:      result.Meal.MealTime,
			FormattedTime: result.Meal.FormattedTime,
		},
		UpdatedTotals: totalsPayload{
			Calories: result.Totals.Calories,
			Proteins: result.Totals.Proteins,
		},
	})
}

// HandleDeleteMeal removes one of the caller's meals.
//
// HTTP: DELETE /api/meals/{id}. 200 with the deleted meal's macros and
// updated totals; 404 when the meal is absent or owned by someone else.
func (h *MealHandler) HandleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "valid authentication required"})
		return
	}

	mealID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "meal not found"})
		return
	}

	result, err := h.meals.DeleteMeal(r.Context(), userID, mealID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteMealResponse{
		Success: true,
		DeletedMeal: totalsPayload{
			Calories: float64(result.Calories),
			Proteins: result.Proteins,
		},
		UpdatedTotals: totalsPayload{
			Calories: result.Totals.Calories,
			Proteins: result.Totals.Proteins,
		},
	})
}
