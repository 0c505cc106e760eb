package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tally/internal/errors"
	"tally/internal/icons"
	"tally/internal/models"
	"tally/internal/pagination"
	"tally/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CategoryRequest represents the payload for creating or updating a
// category. Updates replace all five attributes, so the same shape serves
// both.
type CategoryRequest struct {
	Name    string              `json:"name" binding:"required,min=1,max=50"`
	Type    models.CategoryType `json:"type" binding:"required,category_type"`
	BgColor string              `json:"bg_color" binding:"required,hex_color"`
	FgColor string              `json:"fg_color" binding:"required,hex_color"`
	Icon    string              `json:"icon" binding:"required"`
}

// ListCategoriesRequest holds the query parameters for listing categories.
type ListCategoriesRequest struct {
	Type string `form:"type" binding:"omitempty,category_type"`
	// Q is a case-insensitive substring filter on category names.
	Q string `form:"q"`
	pagination.PageRequest
}

// IconResponse represents one entry of the icon vocabulary.
type IconResponse struct {
	Key   string `json:"key"`
	Glyph string `json:"glyph"`
}

func (r CategoryRequest) input() services.CategoryInput {
	return services.CategoryInput{
		Name:    r.Name,
		Type:    r.Type,
		BgColor: r.BgColor,
		FgColor: r.FgColor,
		Icon:    r.Icon,
	}
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a new transaction category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} errors.AppError "Invalid input"
// @Failure     401 {object} errors.AppError "Unauthorized"
// @Failure     409 {object} errors.AppError "Duplicate name"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "category.create", "category", category.ID, c.ClientIP(),
		map[string]interface{}{"name": category.Name, "type": category.Type})
	respondSuccess(c, http.StatusCreated, category)
}

// GetUserCategories handles the retrieval of all categories for a user
// @Summary     List categories
// @Description List the authenticated user's categories in stable creation order
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       type query string false "Filter by category type (income/expense/both)"
// @Param       q query string false "Case-insensitive name substring filter"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Category] "Page of categories"
// @Failure     401 {object} errors.AppError "Unauthorized"
// @Router      /categories [get]
func (h *CategoryHandler) GetUserCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ListCategoriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.CategoryFilter{NameContains: req.Q}
	if req.Type != "" {
		t := models.CategoryType(req.Type)
		filter.Type = &t
	}

	result, err := h.categoryService.GetUserCategories(userID, filter, req.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, result)
}

// GetGroupedCategories handles the grouped category listing
// @Summary     List categories grouped for display
// @Description Partition the user's categories into income and expense groups; "both" joins the expense group
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.GroupedCategories "Grouped categories"
// @Failure     401 {object} errors.AppError "Unauthorized"
// @Router      /categories/grouped [get]
func (h *CategoryHandler) GetGroupedCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	grouped, err := h.categoryService.GetGroupedCategories(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, grouped)
}

// GetIcons lists the icon vocabulary
// @Summary     List icon keys
// @Description List the icon vocabulary offered for category creation
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} IconResponse "Icon vocabulary"
// @Router      /categories/icons [get]
func (h *CategoryHandler) GetIcons(c *gin.Context) {
	keys := icons.Keys()
	out := make([]IconResponse, 0, len(keys))
	for _, key := range keys {
		out = append(out, IconResponse{Key: key, Glyph: icons.Lookup(key)})
	}
	respondSuccess(c, http.StatusOK, out)
}

// GetCategoryByID handles the retrieval of a specific category
// @Summary     Get category by ID
// @Description Get a specific transaction category by ID
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} models.Category "Category details"
// @Failure     400 {object} errors.AppError "Invalid category ID"
// @Failure     401 {object} errors.AppError "Unauthorized"
// @Failure     404 {object} errors.AppError "Category not found"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, category)
}

// UpdateCategory handles updating a category
// @Summary     Update category
// @Description Replace all attributes of an existing transaction category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Param       request body CategoryRequest true "Updated category details"
// @Success     200 {object} models.Category "Updated category"
// @Failure     400 {object} errors.AppError "Invalid input or category ID"
// @Failure     401 {object} errors.AppError "Unauthorized"
// @Failure     404 {object} errors.AppError "Category not found"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(userID, categoryID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "category.update", "category", category.ID, c.ClientIP(),
		map[string]interface{}{"name": category.Name, "type": category.Type})
	respondSuccess(c, http.StatusOK, category)
}

// DeleteCategory handles deleting a category
// @Summary     Delete category
// @Description Delete a transaction category. Fails while budgets reference it; transaction references are cleared.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} map[string]interface{} "Deleted"
// @Failure     400 {object} errors.AppError "Invalid category ID"
// @Failure     401 {object} errors.AppError "Unauthorized"
// @Failure     404 {object} errors.AppError "Category not found"
// @Failure     409 {object} errors.AppError "Category referenced by budgets"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "category.delete", "category", categoryID, c.ClientIP(), nil)
	respondSuccess(c, http.StatusOK, gin.H{"deleted": categoryID})
}

// SeedDefaultCategories handles the load-defaults convenience action
// @Summary     Seed default categories
// @Description Insert the starter catalog for the user, skipping names that already exist. Idempotent.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.SeedResult "Seed outcome"
// @Failure     401 {object} errors.AppError "Unauthorized"
// @Router      /categories/defaults [post]
func (h *CategoryHandler) SeedDefaultCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.categoryService.SeedDefaultCategories(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if result.Added > 0 {
		h.auditService.Log(userID, "category.seed_defaults", "category", "", c.ClientIP(),
			map[string]interface{}{"added": result.Added})
	}
	respondSuccess(c, http.StatusOK, result)
}
