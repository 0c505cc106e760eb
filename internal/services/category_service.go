package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"tally/internal/cache"
	"tally/internal/catalog"
	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/pagination"
)

const (
	groupCacheSize = 1024
	groupCacheTTL  = 5 * time.Minute
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
	// groups caches the grouped listing per user. Every successful
	// mutation invalidates the owning user's entry before returning, so
	// a read after a mutation always refetches.
	groups cache.Cache[GroupedCategories]
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{
		db:     db,
		groups: cache.NewLRUCache[GroupedCategories](groupCacheSize, groupCacheTTL),
	}
}

// hexColorRegex matches exactly the #RRGGBB form, same as the hex_color
// binding validator.
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// validInput checks the attribute set shared by create and update. The
// HTTP layer already enforces the full schema through binding tags; this
// keeps the service safe when called directly.
func validInput(input CategoryInput) error {
	if input.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	switch input.Type {
	case models.CategoryTypeIncome, models.CategoryTypeExpense, models.CategoryTypeBoth:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category type")
	}
	if !hexColorRegex.MatchString(input.BgColor) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "background color must be in #RRGGBB form")
	}
	if !hexColorRegex.MatchString(input.FgColor) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "foreground color must be in #RRGGBB form")
	}
	if input.Icon == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category icon is required")
	}
	return nil
}

// CreateCategory creates a new category owned by the given user.
func (s *categoryService) CreateCategory(userID string, input CategoryInput) (*models.Category, error) {
	if err := validInput(input); err != nil {
		return nil, err
	}

	// Names are unique per user
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ?", userID, input.Name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.Category{
		UserID:  userID,
		Name:    input.Name,
		Type:    input.Type,
		BgColor: input.BgColor,
		FgColor: input.FgColor,
		Icon:    input.Icon,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.groups.Delete(userID)
	return category, nil
}

// GetUserCategories retrieves a paginated list of the user's categories,
// optionally filtered by type and by case-insensitive name substring.
// Ordering is stable: creation time, then id.
func (s *categoryService) GetUserCategories(userID string, filter CategoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	base := s.db.Model(&models.Category{}).Where("user_id = ?", userID)
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.NameContains != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.NameContains)+"%")
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Order("created_at, id").
		Scopes(pagination.Paginate(page)).
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGroupedCategories retrieves all of the user's categories partitioned
// into income and expense display groups. Categories typed "both" land in
// the expense group. Served from cache until a mutation invalidates it.
func (s *categoryService) GetGroupedCategories(userID string) (*GroupedCategories, error) {
	if grouped, ok := s.groups.Get(userID); ok {
		return &grouped, nil
	}

	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	grouped := GroupedCategories{
		Income:  []models.Category{},
		Expense: []models.Category{},
	}
	for _, c := range categories {
		if c.Type == models.CategoryTypeIncome {
			grouped.Income = append(grouped.Income, c)
		} else {
			grouped.Expense = append(grouped.Expense, c)
		}
	}

	s.groups.Set(userID, grouped)
	return &grouped, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory replaces all five writable attributes of a category
// owned by the given user.
func (s *categoryService) UpdateCategory(userID, categoryID string, input CategoryInput) (*models.Category, error) {
	if err := validInput(input); err != nil {
		return nil, err
	}

	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	// Renames must respect per-user name uniqueness, same as create.
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ? AND id <> ?", userID, input.Name, category.ID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	updates := map[string]interface{}{
		"name":     input.Name,
		"type":     input.Type,
		"bg_color": input.BgColor,
		"fg_color": input.FgColor,
		"icon":     input.Icon,
	}
	if err := s.db.Model(category).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.groups.Delete(userID)
	return category, nil
}

// DeleteCategory deletes a category owned by the given user.
//
// Dependency policy: deletion is refused while any budget references the
// category (that relation is mandatory); dependent transactions have
// their category reference cleared in the same database transaction
// (that relation is optional).
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var budgetCount int64
		if err := tx.Model(&models.Budget{}).
			Where("category_id = ?", category.ID).
			Count(&budgetCount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if budgetCount > 0 {
			return apperrors.ErrCategoryInUse
		}

		if err := tx.Model(&models.Transaction{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Delete(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.groups.Delete(userID)
	return nil
}

// SeedDefaultCategories inserts the starter catalog for the user,
// skipping entries whose name already exists. Safe to invoke repeatedly:
// a re-run after a full seed adds nothing.
func (s *categoryService) SeedDefaultCategories(userID string) (*SeedResult, error) {
	entries := catalog.Defaults()

	var existing []string
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ?", userID).
		Pluck("name", &existing).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	taken := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		taken[name] = struct{}{}
	}

	var missing []models.Category
	for _, e := range entries {
		if _, ok := taken[e.Name]; ok {
			continue
		}
		missing = append(missing, models.Category{
			UserID:  userID,
			Name:    e.Name,
			Type:    e.Type,
			BgColor: e.BgColor,
			FgColor: e.FgColor,
			Icon:    e.Icon,
		})
	}

	if len(missing) > 0 {
		if err := s.db.Create(&missing).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		s.groups.Delete(userID)
	}

	return &SeedResult{
		Added:   len(missing),
		Skipped: len(entries) - len(missing),
	}, nil
}
