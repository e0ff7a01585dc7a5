package handlers

import (
	"log"
	"net/http"
	"strings"

	"blogrig-server/db"
	"blogrig-server/shared"
	"blogrig-server/utils"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

func (h *Handler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for ListCategoriesHandler")

	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		writeServerError(w, "Error listing categories", err)
		return
	}

	res := make([]*shared.Category, 0, len(categories))
	for _, c := range categories {
		res = append(res, c.ToApi())
	}

	writeJson(w, http.StatusOK, map[string]interface{}{"categories": res})
}

func (h *Handler) GetCategoryHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetCategoryHandler")

	category, err := h.store.GetCategoryBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeServerError(w, "Error getting category", err)
		return
	}
	if category == nil {
		writeNotFound(w, "Category not found")
		return
	}

	writeJson(w, http.StatusOK, map[string]interface{}{"category": category.ToApi()})
}

func (h *Handler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for CreateCategoryHandler")
	if h.authorize(w, r, shared.RoleAdmin) == nil {
		return
	}

	var req shared.CreateCategoryRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Name)
	}
	if slug == "" {
		writeValidationErrors(w, []shared.FieldError{{Field: "slug", Msg: "slug is required"}})
		return
	}

	category := &db.Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
	}

	err := h.store.CreateCategory(r.Context(), category)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			writeBadRequest(w, "Category with this name or slug already exists")
			return
		}
		writeServerError(w, "Error creating category", err)
		return
	}

	log.Println("Successfully processed request for CreateCategoryHandler")

	writeJson(w, http.StatusCreated, map[string]interface{}{
		"message":  "Category created successfully",
		"category": category.ToApi(),
	})
}

func (h *Handler) UpdateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for UpdateCategoryHandler")
	if h.authorize(w, r, shared.RoleAdmin) == nil {
		return
	}

	id, ok := pathId(w, r, "id", "Category not found")
	if !ok {
		return
	}

	var req shared.UpdateCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var errs []shared.FieldError
	errs = h.validateField(errs, "name", req.Name, "required,max=100")
	errs = h.validateField(errs, "slug", req.Slug, "slug")
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	ctx := r.Context()

	found, err := h.store.UpdateCategory(ctx, id, &db.CategoryUpdate{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			writeBadRequest(w, "Category with this name or slug already exists")
			return
		}
		writeServerError(w, "Error updating category", err)
		return
	}
	if !found {
		writeNotFound(w, "Category not found")
		return
	}

	category, err := h.store.GetCategory(ctx, id)
	if err != nil {
		writeServerError(w, "Error getting category", err)
		return
	}
	if category == nil {
		writeNotFound(w, "Category not found")
		return
	}

	log.Println("Successfully processed request for UpdateCategoryHandler")

	writeJson(w, http.StatusOK, map[string]interface{}{
		"message":  "Category updated successfully",
		"category": category.ToApi(),
	})
}

func (h *Handler) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for DeleteCategoryHandler")
	if h.authorize(w, r, shared.RoleAdmin) == nil {
		return
	}

	id, ok := pathId(w, r, "id", "Category not found")
	if !ok {
		return
	}

	found, err := h.store.DeleteCategory(r.Context(), id)
	if err != nil {
		writeServerError(w, "Error deleting category", err)
		return
	}
	if !found {
		writeNotFound(w, "Category not found")
		return
	}

	log.Println("Successfully processed request for DeleteCategoryHandler")

	writeMessage(w, http.StatusOK, "Category deleted successfully")
}
