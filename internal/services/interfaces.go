package services

import (
	"tally/internal/models"
	"tally/internal/pagination"
)

// CategoryInput carries the five writable category attributes. Create and
// update both take the full set; updates replace all five.
type CategoryInput struct {
	Name    string
	Type    models.CategoryType
	BgColor string
	FgColor string
	Icon    string
}

// CategoryFilter holds optional filter parameters for listing categories.
type CategoryFilter struct {
	Type *models.CategoryType
	// NameContains is a case-insensitive substring match on the name.
	NameContains string
}

// GroupedCategories partitions a user's categories for display. Categories
// typed "both" are grouped with expenses.
type GroupedCategories struct {
	Income  []models.Category `json:"income"`
	Expense []models.Category `json:"expense"`
}

// SeedResult reports the outcome of seeding default categories.
type SeedResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID string, input CategoryInput) (*models.Category, error)
	GetUserCategories(userID string, filter CategoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetGroupedCategories(userID string) (*GroupedCategories, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, input CategoryInput) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
	SeedDefaultCategories(userID string) (*SeedResult, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
