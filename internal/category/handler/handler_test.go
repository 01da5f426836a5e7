package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/auth"
	"github.com/fekuna/omnipos-picklist-service/internal/category/dto"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	lastScope dto.Scope
	deleteErr error
}

func (s *stubUseCase) CreateCategory(_ context.Context, in *dto.CreateCategoryInput) (*model.Category, error) {
	s.lastScope = in.Scope
	return &model.Category{ID: "c1", StoreID: in.Scope.StoreIDPtr(), Name: in.Name}, nil
}

func (s *stubUseCase) GetCategory(context.Context, string) (*model.Category, error) {
	return nil, nil
}

func (s *stubUseCase) ListCategories(_ context.Context, storeID string) ([]model.Category, error) {
	s.lastScope = dto.Scope{StoreID: storeID}
	return []model.Category{}, nil
}

func (s *stubUseCase) RenameCategory(_ context.Context, in *dto.RenameCategoryInput) (*model.Category, error) {
	s.lastScope = in.Scope
	return &model.Category{ID: in.ID, Name: in.Name}, nil
}

func (s *stubUseCase) DeleteCategory(_ context.Context, sc dto.Scope, _ string) error {
	s.lastScope = sc
	return s.deleteErr
}

func (s *stubUseCase) MoveCategory(_ context.Context, in *dto.MoveCategoryInput) ([]model.Category, error) {
	s.lastScope = in.Scope
	return []model.Category{}, nil
}

func setup(t *testing.T) (*gin.Engine, *stubUseCase, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenManager("secret", 0)
	uc := &stubUseCase{}
	h := NewCategoryHandler(uc, logger.NewNop())

	r := gin.New()
	api := r.Group("/api", auth.Authenticate(tokens))
	h.Register(api.Group("", auth.RequireStore()))
	h.Register(api.Group("/admin", auth.RequireAdmin()))
	return r, uc, tokens
}

func call(r http.Handler, token, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStoreScopeComesFromSession(t *testing.T) {
	r, uc, tokens := setup(t)
	token, err := tokens.Issue(&auth.Session{StoreID: "s1", Role: auth.RoleStore})
	require.NoError(t, err)

	w := call(r, token, http.MethodPost, "/api/categories", `{"name":"Frys"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "s1", uc.lastScope.StoreID)

	w = call(r, token, http.MethodPost, "/api/admin/categories", `{"name":"Frys"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminManagesGlobalScope(t *testing.T) {
	r, uc, tokens := setup(t)
	token, err := tokens.Issue(&auth.Session{Role: auth.RoleAdmin})
	require.NoError(t, err)

	w := call(r, token, http.MethodPost, "/api/admin/categories/c1/move", `{"direction":"up"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, uc.lastScope.IsGlobal())

	w = call(r, token, http.MethodGet, "/api/categories?storeId=s7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s7", uc.lastScope.StoreID)
}

func TestDeleteConflict(t *testing.T) {
	r, uc, tokens := setup(t)
	uc.deleteErr = apperr.Conflict("category is used by 2 order items")
	token, _ := tokens.Issue(&auth.Session{StoreID: "s1", Role: auth.RoleStore})

	w := call(r, token, http.MethodDelete, "/api/categories/c1", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "used by 2 order items")

	uc.deleteErr = nil
	w = call(r, token, http.MethodDelete, "/api/categories/c1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
