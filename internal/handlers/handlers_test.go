package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"zoorequest/internal/caching"
	"zoorequest/internal/common"
	"zoorequest/internal/models"
	"zoorequest/internal/repositories"
	"zoorequest/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock services

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context, titlePrefix string, caller *models.User) (*services.CategoryListing, error) {
	args := m.Called(ctx, titlePrefix, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CategoryListing), args.Error(1)
}

func (m *MockCatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCatalogService) Create(ctx context.Context, title string, measurement, description *string) (*models.Category, error) {
	args := m.Called(ctx, title, measurement, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCatalogService) Update(ctx context.Context, id uuid.UUID, upd models.CategoryUpdate) (*models.Category, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCatalogService) AttachPhoto(ctx context.Context, id uuid.UUID, filename, contentType string, reader io.Reader, size int64) error {
	args := m.Called(ctx, id, filename, contentType, reader, size)
	return args.Error(0)
}

func (m *MockCatalogService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLifecycleService struct {
	mock.Mock
}

func (m *MockLifecycleService) AddCategoryToCart(ctx context.Context, caller *models.User, categoryID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, caller, categoryID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockLifecycleService) UpdateDraft(ctx context.Context, caller *models.User, id uuid.UUID, upd models.AnimalUpdate) (*models.Animal, error) {
	args := m.Called(ctx, caller, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Animal), args.Error(1)
}

func (m *MockLifecycleService) Form(ctx context.Context, id uuid.UUID) (*models.Animal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Animal), args.Error(1)
}

func (m *MockLifecycleService) Resolve(ctx context.Context, moderator *models.User, id uuid.UUID, outcome string) (*models.Animal, error) {
	args := m.Called(ctx, moderator, id, outcome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Animal), args.Error(1)
}

func (m *MockLifecycleService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLifecycleService) List(ctx context.Context, status *string, formedAfter, formedBefore *time.Time) ([]*models.Animal, error) {
	args := m.Called(ctx, status, formedAfter, formedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Animal), args.Error(1)
}

func (m *MockLifecycleService) GetFull(ctx context.Context, id uuid.UUID) (*models.AnimalDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnimalDetail), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	args := m.Called(ctx, username, password, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) ResolveCaller(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, email, password *string) (*models.User, error) {
	args := m.Called(ctx, userID, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Test helpers

func newContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, caller *models.User) echo.Context {
	if caller != nil {
		req = req.WithContext(common.WithCaller(req.Context(), caller))
	}
	return e.NewContext(req, rec)
}

func manager() *models.User {
	return &models.User{ID: uuid.New(), Username: "boss", Role: models.RoleManager}
}

func requester() *models.User {
	return &models.User{ID: uuid.New(), Username: "alice", Role: models.RoleRequester}
}

func TestCategoryList_AnonymousGetsEmptyCart(t *testing.T) {
	e := echo.New()
	catalog := new(MockCatalogService)
	h := NewCategoryHandlers(catalog, new(MockLifecycleService))

	catalog.On("List", mock.Anything, "Big", (*models.User)(nil)).
		Return(&services.CategoryListing{
			Categories: []*models.Category{{ID: uuid.New(), Title: "Big", IsActive: true}},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/category?category_title=Big", nil)
	rec := httptest.NewRecorder()
	c := newContext(e, req, rec, nil)

	assert.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "null", string(body["animal_id"]))
	assert.Equal(t, "0", string(body["items_in_cart"]))
}

func TestAddToCart_RequiresAuthentication(t *testing.T) {
	e := echo.New()
	h := NewCategoryHandlers(new(MockCatalogService), new(MockLifecycleService))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := newContext(e, req, rec, nil)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := h.AddToCart(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestAddToCart_InactiveCategoryIs404(t *testing.T) {
	e := echo.New()
	lifecycle := new(MockLifecycleService)
	h := NewCategoryHandlers(new(MockCatalogService), lifecycle)

	caller := requester()
	categoryID := uuid.New()
	lifecycle.On("AddCategoryToCart", mock.Anything, caller, categoryID).
		Return(uuid.Nil, repositories.ErrNotFound)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := newContext(e, req, rec, caller)
	c.SetParamNames("id")
	c.SetParamValues(categoryID.String())

	err := h.AddToCart(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestResolve_NonTerminalOutcomeIs400(t *testing.T) {
	e := echo.New()
	lifecycle := new(MockLifecycleService)
	h := NewAnimalHandlers(lifecycle)

	caller := manager()
	animalID := uuid.New()
	lifecycle.On("Resolve", mock.Anything, caller, animalID, "DRAFT").
		Return(nil, fmt.Errorf("%w: status must be COMPLETED or REJECTED", repositories.ErrValidation))

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":"DRAFT"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := newContext(e, req, rec, caller)
	c.SetParamNames("id")
	c.SetParamValues(animalID.String())

	err := h.Resolve(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestDeleteAnimal_FormedIs404(t *testing.T) {
	e := echo.New()
	lifecycle := new(MockLifecycleService)
	h := NewAnimalHandlers(lifecycle)

	animalID := uuid.New()
	lifecycle.On("Delete", mock.Anything, animalID).Return(repositories.ErrNotFound)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := newContext(e, req, rec, requester())
	c.SetParamNames("id")
	c.SetParamValues(animalID.String())

	err := h.Delete(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	e := echo.New()
	auth := new(MockAuthService)
	h := NewUserHandlers(auth)

	auth.On("Login", mock.Anything, "alice", "secret").Return("token-123", nil)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"alice","password":"secret"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := newContext(e, req, rec, nil)

	assert.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	cookies := rec.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, "session_id", cookies[0].Name)
	assert.Equal(t, "token-123", cookies[0].Value)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

func TestLogin_WrongPasswordIs400WithoutCookie(t *testing.T) {
	e := echo.New()
	auth := new(MockAuthService)
	h := NewUserHandlers(auth)

	auth.On("Login", mock.Anything, "alice", "wrong").
		Return("", fmt.Errorf("%w: invalid credentials", repositories.ErrValidation))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"alice","password":"wrong"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := newContext(e, req, rec, nil)

	err := h.Login(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogout_WithoutCookieIs403(t *testing.T) {
	e := echo.New()
	h := NewUserHandlers(new(MockAuthService))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := newContext(e, req, rec, nil)

	err := h.Logout(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestLogout_UnknownTokenIs403(t *testing.T) {
	e := echo.New()
	auth := new(MockAuthService)
	h := NewUserHandlers(auth)

	auth.On("Logout", mock.Anything, "stale").Return(caching.ErrSessionNotFound)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "stale"})
	rec := httptest.NewRecorder()
	c := newContext(e, req, rec, nil)

	err := h.Logout(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestRegister_Returns201(t *testing.T) {
	e := echo.New()
	auth := new(MockAuthService)
	h := NewUserHandlers(auth)

	auth.On("Register", mock.Anything, "bob", "hunter2", "bob@zoo.local").
		Return(&models.User{ID: uuid.New(), Username: "bob", Role: models.RoleRequester}, nil)

	req := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"username":"bob","password":"hunter2","email":"bob@zoo.local"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := newContext(e, req, rec, nil)

	assert.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUpdateRecord_MissingBodyValueIs400(t *testing.T) {
	e := echo.New()
	h := NewRecordHandlers(new(MockAssocRepo))

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := newContext(e, req, rec, requester())
	c.SetParamNames("animal_id", "category_id")
	c.SetParamValues(uuid.NewString(), uuid.NewString())

	err := h.Update(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestDeleteRecord_MissingPairIs404(t *testing.T) {
	e := echo.New()
	assocRepo := new(MockAssocRepo)
	h := NewRecordHandlers(assocRepo)

	animalID := uuid.New()
	categoryID := uuid.New()
	assocRepo.On("Delete", mock.Anything, animalID, categoryID).Return(repositories.ErrNotFound)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := newContext(e, req, rec, requester())
	c.SetParamNames("animal_id", "category_id")
	c.SetParamValues(animalID.String(), categoryID.String())

	err := h.Delete(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

// MockAssocRepo mocks the association repository for the record handlers.
type MockAssocRepo struct {
	mock.Mock
}

func (m *MockAssocRepo) Upsert(ctx context.Context, q repositories.Querier, animalID, categoryID uuid.UUID) error {
	args := m.Called(ctx, q, animalID, categoryID)
	return args.Error(0)
}

func (m *MockAssocRepo) UpdateRecord(ctx context.Context, animalID, categoryID uuid.UUID, record int) (*models.AnimalCategory, error) {
	args := m.Called(ctx, animalID, categoryID, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnimalCategory), args.Error(1)
}

func (m *MockAssocRepo) Delete(ctx context.Context, animalID, categoryID uuid.UUID) error {
	args := m.Called(ctx, animalID, categoryID)
	return args.Error(0)
}

func (m *MockAssocRepo) DeleteForAnimal(ctx context.Context, animalID uuid.UUID) error {
	args := m.Called(ctx, animalID)
	return args.Error(0)
}

func (m *MockAssocRepo) ListForAnimal(ctx context.Context, animalID uuid.UUID) ([]models.AssociatedCategory, error) {
	args := m.Called(ctx, animalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AssociatedCategory), args.Error(1)
}

func (m *MockAssocRepo) CountForAnimal(ctx context.Context, animalID uuid.UUID) (int, error) {
	args := m.Called(ctx, animalID)
	return args.Int(0), args.Error(1)
}
