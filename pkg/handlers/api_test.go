package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stokeshomestead/farmops/pkg/apperrors"
	"github.com/stokeshomestead/farmops/pkg/models"
	"github.com/stokeshomestead/farmops/pkg/services"
)

func getJSON(t *testing.T, mux *http.ServeMux, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func newAPIMux(stats *mockStatsService, cattle *mockCattleRepository) *http.ServeMux {
	mux := http.NewServeMux()
	NewAPIHandler(stats, cattle, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestAPIStats(t *testing.T) {
	stats := &mockStatsService{overview: &services.Overview{
		TotalHead:      24,
		ByType:         map[string]int{"cow": 18, "calf": 6},
		CalvesYTD:      6,
		SalesYTDHead:   5,
		SalesYTDAmount: 10175,
	}}
	mux := newAPIMux(stats, &mockCattleRepository{})

	var got services.Overview
	rec := getJSON(t, mux, "/api/stats", &got)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 24, got.TotalHead)
	assert.Equal(t, 6, got.CalvesYTD)
	assert.Equal(t, 10175.0, got.SalesYTDAmount)
}

func TestAPIStatsError(t *testing.T) {
	mux := newAPIMux(&mockStatsService{err: assert.AnError}, &mockCattleRepository{})

	rec := getJSON(t, mux, "/api/stats", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}

func TestAPIListCattle(t *testing.T) {
	repo := &mockCattleRepository{herd: []*models.Cattle{
		{Tag: "42", Type: "cow"},
		{Tag: "RED-0203", Type: "calf"},
	}}
	mux := newAPIMux(&mockStatsService{}, repo)

	t.Run("defaults to active", func(t *testing.T) {
		var got []*models.Cattle
		rec := getJSON(t, mux, "/api/cattle", &got)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "active", repo.listStatus)
		require.Len(t, got, 2)
		assert.Equal(t, "42", got[0].Tag)
	})

	t.Run("honors status filter", func(t *testing.T) {
		getJSON(t, mux, "/api/cattle?status=sold", nil)
		assert.Equal(t, "sold", repo.listStatus)
	})
}

func TestAPIGetCattle(t *testing.T) {
	repo := &mockCattleRepository{animal: &models.Cattle{Tag: "42", Type: "cow", Breed: "Angus"}}
	mux := newAPIMux(&mockStatsService{}, repo)

	var got models.Cattle
	rec := getJSON(t, mux, "/api/cattle/42", &got)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", repo.getTag)
	assert.Equal(t, "cow", got.Type)
}

func TestAPIGetCattleNotFound(t *testing.T) {
	repo := &mockCattleRepository{err: apperrors.ErrNotFound}
	mux := newAPIMux(&mockStatsService{}, repo)

	rec := getJSON(t, mux, "/api/cattle/999", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}
