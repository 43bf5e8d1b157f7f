package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/homebase/internal/auth"
	"github.com/dukerupert/homebase/internal/errutil"
	"github.com/dukerupert/homebase/internal/model"
	"github.com/dukerupert/homebase/internal/respond"
)

// CategoryLister lists the categories of a household.
type CategoryLister interface {
	ListByHousehold(ctx context.Context, householdID string) ([]model.Category, error)
}

type CategoryHandler struct {
	categories CategoryLister
	logger     *slog.Logger
}

func NewCategoryHandler(cl CategoryLister, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: cl, logger: logger}
}

// List returns the caller's household categories. It must run behind
// RequireAuth.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	householdID := auth.HouseholdID(r.Context())
	if householdID == "" {
		respond.Error(w, http.StatusUnauthorized, errutil.Title(errutil.CodeUnauthorized), "No token provided")
		return
	}

	categories, err := h.categories.ListByHousehold(r.Context(), householdID)
	if err != nil {
		h.logger.Error("list categories", "household_id", householdID, "error", err)
		respond.Error(w, http.StatusInternalServerError, errutil.Title(errutil.CodeInternal), "Failed to load categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}
