package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stokeshomestead/farmops/pkg/engine"
	"github.com/stokeshomestead/farmops/pkg/models"
	"github.com/stokeshomestead/farmops/pkg/services"
)

type mockCommandService struct {
	result engine.Result
	err    error

	calls     int
	lastCmd   *engine.Command
	lastToday time.Time
}

func (m *mockCommandService) Execute(_ context.Context, cmd *engine.Command, today time.Time) (engine.Result, error) {
	m.calls++
	m.lastCmd = cmd
	m.lastToday = today
	return m.result, m.err
}

type loggedMessage struct {
	phone     string
	direction string
	body      string
	action    string
}

type mockMessageRepository struct {
	err     error
	entries []loggedMessage
}

func (m *mockMessageRepository) Log(_ context.Context, phone, direction, body, parsedAction string) error {
	m.entries = append(m.entries, loggedMessage{phone, direction, body, parsedAction})
	return m.err
}

type mockStatsService struct {
	overview *services.Overview
	err      error
}

func (m *mockStatsService) Overview(context.Context, time.Time) (*services.Overview, error) {
	return m.overview, m.err
}

type mockCattleRepository struct {
	animal *models.Cattle
	herd   []*models.Cattle
	err    error

	getTag     string
	listStatus string
}

func (m *mockCattleRepository) Create(context.Context, *models.Cattle) error { return m.err }

func (m *mockCattleRepository) GetByTag(_ context.Context, tag string) (*models.Cattle, error) {
	m.getTag = tag
	if m.err != nil {
		return nil, m.err
	}
	return m.animal, nil
}

func (m *mockCattleRepository) List(_ context.Context, status string) ([]*models.Cattle, error) {
	m.listStatus = status
	if m.err != nil {
		return nil, m.err
	}
	return m.herd, nil
}

func (m *mockCattleRepository) UpdateLocation(context.Context, string, uuid.UUID) error {
	return m.err
}

func (m *mockCattleRepository) Count(context.Context, string, *time.Time) (int, error) {
	return 0, m.err
}

func (m *mockCattleRepository) CountByType(context.Context) (map[string]int, error) {
	return nil, m.err
}
