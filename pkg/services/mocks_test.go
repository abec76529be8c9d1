package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stokeshomestead/farmops/pkg/models"
)

// mockCattleRepository is a configurable mock for testing services.
type mockCattleRepository struct {
	animal      *models.Cattle
	herd        []*models.Cattle
	count       int
	countByType map[string]int

	createErr error
	getErr    error
	listErr   error
	updateErr error
	countErr  error

	// Capture inputs for verification
	capturedCreate     *models.Cattle
	capturedTag        string
	capturedLocationID uuid.UUID
	capturedType       string
	capturedSince      *time.Time
}

func (m *mockCattleRepository) Create(ctx context.Context, c *models.Cattle) error {
	m.capturedCreate = c
	return m.createErr
}

func (m *mockCattleRepository) GetByTag(ctx context.Context, tag string) (*models.Cattle, error) {
	m.capturedTag = tag
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.animal, nil
}

func (m *mockCattleRepository) List(ctx context.Context, status string) ([]*models.Cattle, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.herd, nil
}

func (m *mockCattleRepository) UpdateLocation(ctx context.Context, tag string, locationID uuid.UUID) error {
	m.capturedTag = tag
	m.capturedLocationID = locationID
	return m.updateErr
}

func (m *mockCattleRepository) Count(ctx context.Context, cattleType string, since *time.Time) (int, error) {
	m.capturedType = cattleType
	m.capturedSince = since
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.count, nil
}

func (m *mockCattleRepository) CountByType(ctx context.Context) (map[string]int, error) {
	if m.countErr != nil {
		return nil, m.countErr
	}
	return m.countByType, nil
}

// mockEventRepository captures created events.
type mockEventRepository struct {
	events    []*models.Event
	createErr error
	recentErr error

	capturedEvent *models.Event
}

func (m *mockEventRepository) Create(ctx context.Context, e *models.Event) error {
	m.capturedEvent = e
	return m.createErr
}

func (m *mockEventRepository) Recent(ctx context.Context, limit int) ([]*models.Event, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	return m.events, nil
}

// mockSaleRepository captures created sales.
type mockSaleRepository struct {
	totals    *models.SaleTotals
	createErr error
	totalsErr error

	capturedSale *models.Sale
}

func (m *mockSaleRepository) Create(ctx context.Context, s *models.Sale) error {
	m.capturedSale = s
	return m.createErr
}

func (m *mockSaleRepository) TotalsSince(ctx context.Context, since time.Time) (*models.SaleTotals, error) {
	if m.totalsErr != nil {
		return nil, m.totalsErr
	}
	if m.totals == nil {
		return &models.SaleTotals{}, nil
	}
	return m.totals, nil
}

// mockLocationRepository resolves every name to a fixed location.
type mockLocationRepository struct {
	location *models.Location
	err      error

	capturedName string
}

func (m *mockLocationRepository) GetOrCreateByName(ctx context.Context, name string) (*models.Location, error) {
	m.capturedName = name
	if m.err != nil {
		return nil, m.err
	}
	return m.location, nil
}

func (m *mockLocationRepository) List(ctx context.Context) ([]*models.Location, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []*models.Location{m.location}, nil
}
