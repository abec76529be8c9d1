package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stokeshomestead/farmops/pkg/apperrors"
	"github.com/stokeshomestead/farmops/pkg/engine"
	"github.com/stokeshomestead/farmops/pkg/models"
)

var testToday = time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

func parseCommand(t *testing.T, text string) *engine.Command {
	t.Helper()
	e, err := engine.New()
	require.NoError(t, err)
	cmd, fail := e.Parse(engine.Request{Text: text, Today: testToday})
	require.Nil(t, fail, "Parse(%q) failed", text)
	return cmd
}

func newTestCommandService(cattle *mockCattleRepository, events *mockEventRepository, sales *mockSaleRepository, locations *mockLocationRepository) CommandService {
	logger := zap.NewNop()
	stats := NewStatsService(cattle, sales, events, logger)
	return NewCommandService(cattle, events, sales, locations, stats, logger)
}

func TestExecuteAddAnimal(t *testing.T) {
	cattle := &mockCattleRepository{}
	svc := newTestCommandService(cattle, &mockEventRepository{}, &mockSaleRepository{}, &mockLocationRepository{})

	cmd := parseCommand(t, "Add calf born today red tag")
	res, err := svc.Execute(context.Background(), cmd, testToday)
	require.NoError(t, err)

	require.NotNil(t, cattle.capturedCreate)
	assert.Equal(t, "RED-0203", cattle.capturedCreate.Tag)
	assert.Equal(t, "calf", cattle.capturedCreate.Type)
	require.NotNil(t, cattle.capturedCreate.BirthDate)
	assert.Equal(t, testToday, *cattle.capturedCreate.BirthDate)
	assert.Equal(t, "RED-0203", res.Tag)
}

func TestExecuteAddAnimalGeneratedTag(t *testing.T) {
	cattle := &mockCattleRepository{}
	svc := newTestCommandService(cattle, &mockEventRepository{}, &mockSaleRepository{}, &mockLocationRepository{})

	cmd := parseCommand(t, "add new heifer")
	_, err := svc.Execute(context.Background(), cmd, testToday)
	require.NoError(t, err)

	require.NotNil(t, cattle.capturedCreate)
	assert.Equal(t, "NEW-0203", cattle.capturedCreate.Tag)
	assert.Equal(t, "heifer", cattle.capturedCreate.Type)
}

func TestExecuteAddAnimalNumericTagKept(t *testing.T) {
	cattle := &mockCattleRepository{}
	svc := newTestCommandService(cattle, &mockEventRepository{}, &mockSaleRepository{}, &mockLocationRepository{})

	cmd := parseCommand(t, "add cow tag 88")
	_, err := svc.Execute(context.Background(), cmd, testToday)
	require.NoError(t, err)

	require.NotNil(t, cattle.capturedCreate)
	assert.Equal(t, "88", cattle.capturedCreate.Tag)
}

func TestExecuteMove(t *testing.T) {
	locID := uuid.New()
	cattle := &mockCattleRepository{}
	locations := &mockLocationRepository{location: &models.Location{ID: locID, Name: "North Pasture"}}
	svc := newTestCommandService(cattle, &mockEventRepository{}, &mockSaleRepository{}, locations)

	cmd := parseCommand(t, "Cow 42 moved to north pasture")
	res, err := svc.Execute(context.Background(), cmd, testToday)
	require.NoError(t, err)

	assert.Equal(t, "north pasture", locations.capturedName)
	assert.Equal(t, "42", cattle.capturedTag)
	assert.Equal(t, locID, cattle.capturedLocationID)
	assert.Equal(t, "North Pasture", res.Location)
}

func TestExecuteHealthEvent(t *testing.T) {
	animalID := uuid.New()
	cattle := &mockCattleRepository{animal: &models.Cattle{ID: animalID, Tag: "15"}}
	events := &mockEventRepository{}
	svc := newTestCommandService(cattle, events, &mockSaleRepository{}, &mockLocationRepository{})

	cmd := parseCommand(t, "Vet visit cow 15 pink eye")
	res, err := svc.Execute(context.Background(), cmd, testToday)
	require.NoError(t, err)

	require.NotNil(t, events.capturedEvent)
	assert.Equal(t, models.EventVet, events.capturedEvent.EventType)
	assert.Equal(t, "pink eye", events.capturedEvent.Details)
	require.NotNil(t, events.capturedEvent.CattleID)
	assert.Equal(t, animalID, *events.capturedEvent.CattleID)
	assert.Equal(t, testToday, events.capturedEvent.EventDate)
	assert.Equal(t, models.EventVet, res.EventType)
}

func TestExecuteHealthEventUnknownTag(t *testing.T) {
	// An event for an animal with no record is still logged, without a
	// cattle reference.
	cattle := &mockCattleRepository{getErr: apperrors.ErrNotFound}
	events := &mockEventRepository{}
	svc := newTestCommandService(cattle, events, &mockSaleRepository{}, &mockLocationRepository{})

	cmd := parseCommand(t, "cow 999 limping")
	_, err := svc.Execute(context.Background(), cmd, testToday)
	require.NoError(t, err)

	require.NotNil(t, events.capturedEvent)
	assert.Nil(t, events.capturedEvent.CattleID)
	assert.Equal(t, "limping", events.capturedEvent.Details)
}

func TestExecuteSale(t *testing.T) {
	sales := &mockSaleRepository{}
	svc := newTestCommandService(&mockCattleRepository{}, &mockEventRepository{}, sales, &mockLocationRepository{})

	cmd := parseCommand(t, "Sold 5 steers today $1.85/lb avg 1100")
	res, err := svc.Execute(context.Background(), cmd, testToday)
	require.NoError(t, err)

	require.NotNil(t, sales.capturedSale)
	s := sales.capturedSale
	assert.Equal(t, 5, s.HeadCount)
	assert.Equal(t, "steer", s.CattleType)
	assert.Equal(t, testToday, s.SaleDate)
	require.NotNil(t, s.PricePerLb)
	assert.InDelta(t, 1.85, *s.PricePerLb, 0.0001)
	require.NotNil(t, s.TotalWeight)
	assert.InDelta(t, 5500, *s.TotalWeight, 0.0001)
	require.NotNil(t, s.TotalAmount)
	assert.InDelta(t, 10175, *s.TotalAmount, 0.0001)
	assert.InDelta(t, 10175, res.TotalAmount, 0.0001)
}

func TestExecuteSaleWithoutWeight(t *testing.T) {
	// No average weight means no computable total; the sale is still
	// recorded with just head count and price.
	sales := &mockSaleRepository{}
	svc := newTestCommandService(&mockCattleRepository{}, &mockEventRepository{}, sales, &mockLocationRepository{})

	cmd := parseCommand(t, "sold 3 heifers $2.10/lb")
	res, err := svc.Execute(context.Background(), cmd, testToday)
	require.NoError(t, err)

	require.NotNil(t, sales.capturedSale)
	assert.Nil(t, sales.capturedSale.TotalWeight)
	assert.Nil(t, sales.capturedSale.TotalAmount)
	assert.Equal(t, float64(0), res.TotalAmount)
}

func TestExecuteQueryCount(t *testing.T) {
	cattle := &mockCattleRepository{count: 7}
	svc := newTestCommandService(cattle, &mockEventRepository{}, &mockSaleRepository{}, &mockLocationRepository{})

	cmd := parseCommand(t, "How many calves this month")
	res, err := svc.Execute(context.Background(), cmd, testToday)
	require.NoError(t, err)

	assert.Equal(t, "calf", cattle.capturedType)
	require.NotNil(t, cattle.capturedSince)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), *cattle.capturedSince)
	assert.Equal(t, 7, res.Count)
}

func TestExecuteQueryLocation(t *testing.T) {
	cattle := &mockCattleRepository{animal: &models.Cattle{Tag: "42", LocationName: "North Pasture"}}
	svc := newTestCommandService(cattle, &mockEventRepository{}, &mockSaleRepository{}, &mockLocationRepository{})

	cmd := parseCommand(t, "Where is cow 42")
	res, err := svc.Execute(context.Background(), cmd, testToday)
	require.NoError(t, err)

	assert.Equal(t, "42", res.Tag)
	assert.Equal(t, "North Pasture", res.Location)
}

func TestExecuteQueryLocationUnknownTag(t *testing.T) {
	cattle := &mockCattleRepository{getErr: apperrors.ErrNotFound}
	svc := newTestCommandService(cattle, &mockEventRepository{}, &mockSaleRepository{}, &mockLocationRepository{})

	cmd := parseCommand(t, "Where is cow 404")
	res, err := svc.Execute(context.Background(), cmd, testToday)
	require.NoError(t, err)

	assert.Equal(t, "404", res.Tag)
	assert.Empty(t, res.Location)
}

func TestExecuteQueryList(t *testing.T) {
	cattle := &mockCattleRepository{herd: []*models.Cattle{{Tag: "1"}, {Tag: "2"}, {Tag: "3"}}}
	svc := newTestCommandService(cattle, &mockEventRepository{}, &mockSaleRepository{}, &mockLocationRepository{})

	cmd := parseCommand(t, "list all cattle")
	res, err := svc.Execute(context.Background(), cmd, testToday)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Count)
}

func TestExecuteStatus(t *testing.T) {
	cattle := &mockCattleRepository{count: 47, countByType: map[string]int{"cow": 30, "calf": 17}}
	sales := &mockSaleRepository{totals: &models.SaleTotals{HeadCount: 5, TotalAmount: 10175}}
	svc := newTestCommandService(cattle, &mockEventRepository{}, sales, &mockLocationRepository{})

	cmd := parseCommand(t, "status")
	res, err := svc.Execute(context.Background(), cmd, testToday)
	require.NoError(t, err)

	require.NotNil(t, res.Stats)
	assert.Equal(t, 47, res.Stats.TotalHead)
	assert.Equal(t, 5, res.Stats.SalesHeadYTD)
	assert.InDelta(t, 10175, res.Stats.SalesAmountYTD, 0.0001)
}

func TestClassifyEventType(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"vet visit cow 15 pink eye", models.EventVet},
		{"cow 12 vaccinated", models.EventTreatment},
		{"calf born this morning cow 7", models.EventBirth},
		{"cow 3 died last night", models.EventDeath},
		{"42 sick", models.EventNote},
	}
	for _, tt := range tests {
		if got := classifyEventType(tt.text); got != tt.want {
			t.Errorf("classifyEventType(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestAssignTag(t *testing.T) {
	e, err := engine.New()
	require.NoError(t, err)

	tests := []struct {
		text string
		want string
	}{
		{"Add calf born today red tag", "RED-0203"},
		{"add cow tag 88", "88"},
		{"add new heifer", "NEW-0203"},
	}
	for _, tt := range tests {
		cmd, fail := e.Parse(engine.Request{Text: tt.text, Today: testToday})
		require.Nil(t, fail, "Parse(%q)", tt.text)
		if got := assignTag(cmd, testToday); got != tt.want {
			t.Errorf("assignTag(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
