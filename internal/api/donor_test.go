package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/masjidtools/qurbani-backend/internal/distribution"
	"github.com/masjidtools/qurbani-backend/internal/models"
	"github.com/masjidtools/qurbani-backend/internal/repository"
)

type mockDonorRepo struct {
	mock.Mock
}

func (m *mockDonorRepo) Create(ctx context.Context, mosqueID uuid.UUID, in repository.DonorInput) (*models.Donor, error) {
	args := m.Called(ctx, mosqueID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Donor), args.Error(1)
}

func (m *mockDonorRepo) Update(ctx context.Context, mosqueID, donorID uuid.UUID, in repository.DonorInput) (*models.Donor, error) {
	args := m.Called(ctx, mosqueID, donorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Donor), args.Error(1)
}

func (m *mockDonorRepo) Delete(ctx context.Context, mosqueID, donorID uuid.UUID) (bool, error) {
	args := m.Called(ctx, mosqueID, donorID)
	return args.Bool(0), args.Error(1)
}

func (m *mockDonorRepo) ListByMosque(ctx context.Context, mosqueID uuid.UUID) ([]models.Donor, error) {
	args := m.Called(ctx, mosqueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Donor), args.Error(1)
}

func (m *mockDonorRepo) TotalsByMosque(ctx context.Context, mosqueID uuid.UUID) (distribution.Totals, error) {
	args := m.Called(ctx, mosqueID)
	return args.Get(0).(distribution.Totals), args.Error(1)
}

func newDonorRouter(repo *mockDonorRepo, mosqueID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDonorHandler(repo, zap.NewNop())

	r := gin.New()
	r.Use(asMosque(mosqueID))
	r.GET("/donors", h.List)
	r.POST("/donors", h.Create)
	r.DELETE("/donors", h.Delete)
	return r
}

func TestCreateDonor(t *testing.T) {
	mosqueID := uuid.New()
	repo := &mockDonorRepo{}
	repo.On("Create", mock.Anything, mosqueID, mock.MatchedBy(func(in repository.DonorInput) bool {
		return in.Name == "Ahmed Ali" &&
			in.Beef.Equal(decimal.NewFromInt(25000)) &&
			in.Lungs.Equal(decimal.NewFromInt(2000)) &&
			in.Bone.Equal(decimal.NewFromInt(3000))
	})).Return(&models.Donor{ID: uuid.New(), Name: "Ahmed Ali"}, nil)

	r := newDonorRouter(repo, mosqueID)

	body := `{"name": "Ahmed Ali", "phone": "0300-1234567",
		"beef": 25000, "lungs": "2000", "bone": 3000}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/donors", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	repo.AssertExpectations(t)
}

func TestCreateDonorFloorsBadQuantities(t *testing.T) {
	// Missing, non-numeric, and negative quantities all floor to zero.
	mosqueID := uuid.New()
	repo := &mockDonorRepo{}
	repo.On("Create", mock.Anything, mosqueID, mock.MatchedBy(func(in repository.DonorInput) bool {
		return in.Beef.IsZero() && in.Lungs.IsZero() && in.Bone.IsZero()
	})).Return(&models.Donor{ID: uuid.New()}, nil)

	r := newDonorRouter(repo, mosqueID)

	body := `{"name": "Fatima Bibi", "beef": "abc", "lungs": -50}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/donors", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	repo.AssertExpectations(t)
}

func TestCreateDonorRequiresName(t *testing.T) {
	repo := &mockDonorRepo{}
	r := newDonorRouter(repo, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/donors", strings.NewReader(`{"beef": 100}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestDeleteDonorRequiresValidID(t *testing.T) {
	repo := &mockDonorRepo{}
	r := newDonorRouter(repo, uuid.New())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/donors?id=not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Delete")
}

func TestQuantityUnmarshal(t *testing.T) {
	var payload struct {
		Beef  Quantity `json:"beef"`
		Lungs Quantity `json:"lungs"`
		Bone  Quantity `json:"bone"`
	}
	err := json.Unmarshal([]byte(`{"beef": "1234.56", "lungs": null, "bone": -9}`), &payload)
	require.NoError(t, err)

	assert.Equal(t, "1234.56", payload.Beef.String())
	assert.True(t, payload.Lungs.IsZero())
	assert.True(t, payload.Bone.IsZero())
}
