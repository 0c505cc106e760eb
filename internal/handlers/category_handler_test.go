package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "tally/internal/errors"
	"tally/internal/middleware"
	"tally/internal/models"
	"tally/internal/pagination"
	"tally/internal/services"
	"tally/internal/validator"
)

const testUserID = "0198e9a2-0000-7000-8000-000000000001"
const testCategoryID = "0198e9a2-0000-7000-8000-000000000002"

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// --- mock services ---

type mockCategoryService struct {
	createCategoryFn        func(userID string, input services.CategoryInput) (*models.Category, error)
	getUserCategoriesFn     func(userID string, filter services.CategoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	getGroupedCategoriesFn  func(userID string) (*services.GroupedCategories, error)
	getCategoryByIDFn       func(userID, categoryID string) (*models.Category, error)
	updateCategoryFn        func(userID, categoryID string, input services.CategoryInput) (*models.Category, error)
	deleteCategoryFn        func(userID, categoryID string) error
	seedDefaultCategoriesFn func(userID string) (*services.SeedResult, error)
}

func (m *mockCategoryService) CreateCategory(userID string, input services.CategoryInput) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, input)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) GetUserCategories(userID string, filter services.CategoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	if m.getUserCategoriesFn != nil {
		return m.getUserCategoriesFn(userID, filter, page)
	}
	resp := pagination.NewPageResponse([]models.Category{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockCategoryService) GetGroupedCategories(userID string) (*services.GroupedCategories, error) {
	if m.getGroupedCategoriesFn != nil {
		return m.getGroupedCategoriesFn(userID)
	}
	return &services.GroupedCategories{Income: []models.Category{}, Expense: []models.Category{}}, nil
}

func (m *mockCategoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(userID, categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(userID, categoryID string, input services.CategoryInput) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, categoryID, input)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(userID, categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return nil
}

func (m *mockCategoryService) SeedDefaultCategories(userID string) (*services.SeedResult, error) {
	if m.seedDefaultCategoriesFn != nil {
		return m.seedDefaultCategoriesFn(userID)
	}
	return &services.SeedResult{}, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

type mockAuditService struct {
	logged []string
}

func (m *mockAuditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	m.logged = append(m.logged, action)
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- helpers ---

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/categories", handler.CreateCategory)
	auth.GET("/categories", handler.GetUserCategories)
	auth.GET("/categories/grouped", handler.GetGroupedCategories)
	auth.GET("/categories/icons", handler.GetIcons)
	auth.POST("/categories/defaults", handler.SeedDefaultCategories)
	auth.GET("/categories/:id", handler.GetCategoryByID)
	auth.PUT("/categories/:id", handler.UpdateCategory)
	auth.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	if result["success"] != false {
		t.Errorf("expected success=false envelope, got %v", result["success"])
	}
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in envelope, got %v", result["error"])
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %v", code, errObj["code"])
	}
}

// --- tests ---

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		catSvc := &mockCategoryService{
			createCategoryFn: func(_ string, input services.CategoryInput) (*models.Category, error) {
				return &models.Category{
					Base:    models.Base{ID: testCategoryID},
					Name:    input.Name,
					Type:    input.Type,
					BgColor: input.BgColor,
					FgColor: input.FgColor,
					Icon:    input.Icon,
				}, nil
			},
		}
		audit := &mockAuditService{}
		handler := NewCategoryHandler(catSvc, audit)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories",
			`{"name":"Groceries","type":"expense","bg_color":"#F9FAFB","fg_color":"#4B5563","icon":"shopping-cart"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["success"] != true {
			t.Errorf("expected success=true envelope, got %v", result["success"])
		}
		cat := result["data"].(map[string]interface{})
		if cat["name"] != "Groceries" {
			t.Errorf("expected Groceries, got %v", cat["name"])
		}
		if cat["id"] != testCategoryID {
			t.Errorf("expected generated id in response, got %v", cat["id"])
		}
		if len(audit.logged) != 1 || audit.logged[0] != "category.create" {
			t.Errorf("expected one category.create audit entry, got %v", audit.logged)
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories",
			`{"type":"expense","bg_color":"#F9FAFB","fg_color":"#4B5563","icon":"tag"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories",
			`{"name":"Food","type":"savings","bg_color":"#F9FAFB","fg_color":"#4B5563","icon":"tag"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on short hex color", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories",
			`{"name":"Food","type":"expense","bg_color":"#FFF","fg_color":"#4B5563","icon":"tag"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on missing icon", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories",
			`{"name":"Food","type":"expense","bg_color":"#F9FAFB","fg_color":"#4B5563"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns generic 500 on unexpected error", func(t *testing.T) {
		catSvc := &mockCategoryService{
			createCategoryFn: func(string, services.CategoryInput) (*models.Category, error) {
				return nil, errors.New("connection reset")
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories",
			`{"name":"Groceries","type":"expense","bg_color":"#F9FAFB","fg_color":"#4B5563","icon":"tag"}`)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "INTERNAL_ERROR")
		errObj := result["error"].(map[string]interface{})
		if msg := errObj["message"].(string); strings.Contains(msg, "connection reset") {
			t.Errorf("internal detail leaked to the client: %q", msg)
		}
	})

	t.Run("returns 409 on duplicate name", func(t *testing.T) {
		catSvc := &mockCategoryService{
			createCategoryFn: func(string, services.CategoryInput) (*models.Category, error) {
				return nil, apperrors.ErrDuplicateCategory
			},
		}
		audit := &mockAuditService{}
		handler := NewCategoryHandler(catSvc, audit)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories",
			`{"name":"Groceries","type":"expense","bg_color":"#F9FAFB","fg_color":"#4B5563","icon":"tag"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_CATEGORY")
		if len(audit.logged) != 0 {
			t.Errorf("expected no audit entry on failure, got %v", audit.logged)
		}
	})
}

func TestCategoryHandler_GetUserCategories(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		var gotFilter services.CategoryFilter
		catSvc := &mockCategoryService{
			getUserCategoriesFn: func(_ string, filter services.CategoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Category{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories?type=income&q=sal", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotFilter.Type == nil || *gotFilter.Type != models.CategoryTypeIncome {
			t.Errorf("expected income type filter, got %v", gotFilter.Type)
		}
		if gotFilter.NameContains != "sal" {
			t.Errorf("expected q filter 'sal', got %q", gotFilter.NameContains)
		}
	})

	t.Run("returns 400 on invalid type filter", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories?type=savings", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_GetGroupedCategories(t *testing.T) {
	t.Run("returns both groups", func(t *testing.T) {
		catSvc := &mockCategoryService{
			getGroupedCategoriesFn: func(string) (*services.GroupedCategories, error) {
				return &services.GroupedCategories{
					Income:  []models.Category{{Name: "Salary", Type: models.CategoryTypeIncome}},
					Expense: []models.Category{{Name: "Savings", Type: models.CategoryTypeBoth}},
				}, nil
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories/grouped", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		data := result["data"].(map[string]interface{})
		if len(data["income"].([]interface{})) != 1 {
			t.Errorf("expected 1 income entry, got %v", data["income"])
		}
		if len(data["expense"].([]interface{})) != 1 {
			t.Errorf("expected 1 expense entry, got %v", data["expense"])
		}
	})
}

func TestCategoryHandler_GetIcons(t *testing.T) {
	t.Run("lists the vocabulary", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories/icons", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) == 0 {
			t.Fatal("expected non-empty icon vocabulary")
		}
		first := data[0].(map[string]interface{})
		if first["key"] == "" || first["glyph"] == "" {
			t.Errorf("expected key and glyph per entry, got %v", first)
		}
	})
}

func TestCategoryHandler_UpdateCategory(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		catSvc := &mockCategoryService{
			updateCategoryFn: func(_, categoryID string, input services.CategoryInput) (*models.Category, error) {
				return &models.Category{
					Base: models.Base{ID: categoryID},
					Name: input.Name,
					Type: input.Type,
				}, nil
			},
		}
		audit := &mockAuditService{}
		handler := NewCategoryHandler(catSvc, audit)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PUT", "/categories/"+testCategoryID,
			`{"name":"Renamed","type":"both","bg_color":"#EEEEEE","fg_color":"#333333","icon":"piggy-bank"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		cat := result["data"].(map[string]interface{})
		if cat["name"] != "Renamed" {
			t.Errorf("expected Renamed, got %v", cat["name"])
		}
		if len(audit.logged) != 1 || audit.logged[0] != "category.update" {
			t.Errorf("expected one category.update audit entry, got %v", audit.logged)
		}
	})

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PUT", "/categories/not-a-uuid",
			`{"name":"Renamed","type":"both","bg_color":"#EEEEEE","fg_color":"#333333","icon":"tag"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not owned", func(t *testing.T) {
		catSvc := &mockCategoryService{
			updateCategoryFn: func(string, string, services.CategoryInput) (*models.Category, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PUT", "/categories/"+testCategoryID,
			`{"name":"Renamed","type":"both","bg_color":"#EEEEEE","fg_color":"#333333","icon":"tag"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		audit := &mockAuditService{}
		handler := NewCategoryHandler(&mockCategoryService{}, audit)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/"+testCategoryID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["success"] != true {
			t.Errorf("expected success=true envelope, got %v", result["success"])
		}
		if len(audit.logged) != 1 || audit.logged[0] != "category.delete" {
			t.Errorf("expected one category.delete audit entry, got %v", audit.logged)
		}
	})

	t.Run("returns 409 while budgets reference it", func(t *testing.T) {
		catSvc := &mockCategoryService{
			deleteCategoryFn: func(string, string) error {
				return apperrors.ErrCategoryInUse
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/"+testCategoryID, "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_IN_USE")
	})
}

func TestCategoryHandler_SeedDefaultCategories(t *testing.T) {
	t.Run("reports added count", func(t *testing.T) {
		catSvc := &mockCategoryService{
			seedDefaultCategoriesFn: func(string) (*services.SeedResult, error) {
				return &services.SeedResult{Added: 19, Skipped: 0}, nil
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories/defaults", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		data := result["data"].(map[string]interface{})
		if data["added"] != float64(19) {
			t.Errorf("expected added=19, got %v", data["added"])
		}
	})

	t.Run("no audit entry when nothing added", func(t *testing.T) {
		catSvc := &mockCategoryService{
			seedDefaultCategoriesFn: func(string) (*services.SeedResult, error) {
				return &services.SeedResult{Added: 0, Skipped: 19}, nil
			},
		}
		audit := &mockAuditService{}
		handler := NewCategoryHandler(catSvc, audit)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories/defaults", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(audit.logged) != 0 {
			t.Errorf("expected no audit entry, got %v", audit.logged)
		}
	})
}
