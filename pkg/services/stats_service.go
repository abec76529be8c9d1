package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/stokeshomestead/farmops/pkg/engine"
	"github.com/stokeshomestead/farmops/pkg/models"
	"github.com/stokeshomestead/farmops/pkg/repositories"
)

// Overview is the herd summary behind the status command and the dashboard
// stats API.
type Overview struct {
	TotalHead      int             `json:"total_head"`
	ByType         map[string]int  `json:"by_type"`
	CalvesYTD      int             `json:"calves_ytd"`
	SalesYTDHead   int             `json:"sales_ytd_head"`
	SalesYTDAmount float64         `json:"sales_ytd_amount"`
	RecentEvents   []*models.Event `json:"recent_events"`
}

// EngineStats projects the overview onto the formatter's stats shape.
func (o *Overview) EngineStats() *engine.Stats {
	return &engine.Stats{
		TotalHead:      o.TotalHead,
		ByType:         o.ByType,
		CalvesYTD:      o.CalvesYTD,
		SalesHeadYTD:   o.SalesYTDHead,
		SalesAmountYTD: o.SalesYTDAmount,
	}
}

// StatsService aggregates herd statistics.
type StatsService interface {
	Overview(ctx context.Context, today time.Time) (*Overview, error)
}

// statsService implements StatsService.
type statsService struct {
	cattleRepo repositories.CattleRepository
	saleRepo   repositories.SaleRepository
	eventRepo  repositories.EventRepository
	logger     *zap.Logger
}

// NewStatsService creates a new stats service with dependencies.
func NewStatsService(
	cattleRepo repositories.CattleRepository,
	saleRepo repositories.SaleRepository,
	eventRepo repositories.EventRepository,
	logger *zap.Logger,
) StatsService {
	return &statsService{
		cattleRepo: cattleRepo,
		saleRepo:   saleRepo,
		eventRepo:  eventRepo,
		logger:     logger,
	}
}

// Overview computes the herd summary. YTD windows start January 1 of
// today's year.
func (s *statsService) Overview(ctx context.Context, today time.Time) (*Overview, error) {
	yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())

	total, err := s.cattleRepo.Count(ctx, "", nil)
	if err != nil {
		return nil, err
	}
	byType, err := s.cattleRepo.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	calves, err := s.cattleRepo.Count(ctx, "calf", &yearStart)
	if err != nil {
		return nil, err
	}
	saleTotals, err := s.saleRepo.TotalsSince(ctx, yearStart)
	if err != nil {
		return nil, err
	}
	recent, err := s.eventRepo.Recent(ctx, 10)
	if err != nil {
		return nil, err
	}

	return &Overview{
		TotalHead:      total,
		ByType:         byType,
		CalvesYTD:      calves,
		SalesYTDHead:   saleTotals.HeadCount,
		SalesYTDAmount: saleTotals.TotalAmount,
		RecentEvents:   recent,
	}, nil
}
