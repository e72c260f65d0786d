package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/taskforge/taskforge-api/internal/model"
	"github.com/taskforge/taskforge-api/internal/repository"
	"github.com/taskforge/taskforge-api/internal/service"
)

// CategoryHandler handles HTTP requests for category operations.
type CategoryHandler struct {
	service *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: svc}
}

// HandleList handles GET /api/categories requests.
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	categories, err := h.service.List(r.Context(), id.UserID)
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// HandleSearch handles GET /api/categories/search requests.
func (h *CategoryHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	categories, err := h.service.Search(r.Context(), id.UserID, r.URL.Query().Get("q"))
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// HandleCreate handles POST /api/categories requests.
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req model.CategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.service.Create(r.Context(), id.UserID, req)
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// HandleUpdate handles PUT /api/categories/{category_id} requests.
func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	categoryID, ok := categoryIDParam(w, r)
	if !ok {
		return
	}

	var req model.CategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.service.Update(r.Context(), id.UserID, categoryID, req)
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// HandleDelete handles DELETE /api/categories/{category_id} requests.
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	categoryID, ok := categoryIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id.UserID, categoryID); err != nil {
		writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

func writeCategoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNameRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrCategoryForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, repository.ErrCategoryNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	default:
		slog.Error("category operation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

func categoryIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "category_id"))
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid category id"))
		return 0, false
	}
	return id, true
}
