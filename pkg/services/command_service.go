package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stokeshomestead/farmops/pkg/apperrors"
	"github.com/stokeshomestead/farmops/pkg/engine"
	"github.com/stokeshomestead/farmops/pkg/models"
	"github.com/stokeshomestead/farmops/pkg/repositories"
)

// CommandService executes parsed commands against the herd records.
type CommandService interface {
	Execute(ctx context.Context, cmd *engine.Command, today time.Time) (engine.Result, error)
}

// commandService implements CommandService.
type commandService struct {
	cattleRepo   repositories.CattleRepository
	eventRepo    repositories.EventRepository
	saleRepo     repositories.SaleRepository
	locationRepo repositories.LocationRepository
	stats        StatsService
	logger       *zap.Logger
}

// NewCommandService creates a new command service with dependencies.
func NewCommandService(
	cattleRepo repositories.CattleRepository,
	eventRepo repositories.EventRepository,
	saleRepo repositories.SaleRepository,
	locationRepo repositories.LocationRepository,
	stats StatsService,
	logger *zap.Logger,
) CommandService {
	return &commandService{
		cattleRepo:   cattleRepo,
		eventRepo:    eventRepo,
		saleRepo:     saleRepo,
		locationRepo: locationRepo,
		stats:        stats,
		logger:       logger,
	}
}

// Execute branches on the command's intent. today anchors generated tags and
// defaulted dates, mirroring the engine's caller-supplied current date.
func (s *commandService) Execute(ctx context.Context, cmd *engine.Command, today time.Time) (engine.Result, error) {
	switch cmd.Intent {
	case engine.IntentAddAnimal:
		return s.addAnimal(ctx, cmd, today)
	case engine.IntentMove:
		return s.move(ctx, cmd)
	case engine.IntentHealthEvent:
		return s.healthEvent(ctx, cmd, today)
	case engine.IntentSale:
		return s.sale(ctx, cmd, today)
	case engine.IntentQuery:
		return s.query(ctx, cmd)
	case engine.IntentStatus:
		overview, err := s.stats.Overview(ctx, today)
		if err != nil {
			return engine.Result{}, err
		}
		return engine.Result{Stats: overview.EngineStats()}, nil
	case engine.IntentHelp:
		return engine.Result{}, nil
	}
	return engine.Result{}, fmt.Errorf("unhandled intent %q", cmd.Intent)
}

func (s *commandService) addAnimal(ctx context.Context, cmd *engine.Command, today time.Time) (engine.Result, error) {
	animalType := "calf"
	if at, ok := cmd.AnimalType(); ok {
		animalType = at.Canonical
	}

	animal := &models.Cattle{
		Tag:  assignTag(cmd, today),
		Type: animalType,
	}
	if bd, ok := cmd.Date(engine.SlotBirthDate); ok {
		t := bd.Time
		animal.BirthDate = &t
	}
	if loc, ok := cmd.Location(); ok {
		location, err := s.locationRepo.GetOrCreateByName(ctx, string(loc))
		if err != nil {
			return engine.Result{}, err
		}
		animal.LocationID = &location.ID
	}

	if err := s.cattleRepo.Create(ctx, animal); err != nil {
		return engine.Result{}, err
	}
	s.logger.Info("Added animal",
		zap.String("tag", animal.Tag),
		zap.String("type", animal.Type))
	return engine.Result{Tag: animal.Tag}, nil
}

func (s *commandService) move(ctx context.Context, cmd *engine.Command) (engine.Result, error) {
	tag, ok := cmd.Tag()
	if !ok {
		return engine.Result{}, fmt.Errorf("move command without tag")
	}
	dest, ok := cmd.Destination()
	if !ok {
		return engine.Result{}, fmt.Errorf("move command without destination")
	}

	location, err := s.locationRepo.GetOrCreateByName(ctx, string(dest))
	if err != nil {
		return engine.Result{}, err
	}
	if err := s.cattleRepo.UpdateLocation(ctx, string(tag), location.ID); err != nil {
		return engine.Result{}, err
	}
	return engine.Result{Tag: string(tag), Location: location.Name}, nil
}

func (s *commandService) healthEvent(ctx context.Context, cmd *engine.Command, today time.Time) (engine.Result, error) {
	tag, ok := cmd.Tag()
	if !ok {
		return engine.Result{}, fmt.Errorf("health command without tag")
	}
	note, _ := cmd.Note()

	// The animal may not have a record yet; log the event anyway.
	var cattleID *uuid.UUID
	animal, err := s.cattleRepo.GetByTag(ctx, string(tag))
	switch {
	case err == nil:
		cattleID = &animal.ID
	case errors.Is(err, apperrors.ErrNotFound):
		s.logger.Warn("Health event for unknown tag", zap.String("tag", string(tag)))
	default:
		return engine.Result{}, err
	}

	eventDate := today
	if d, ok := cmd.Date(engine.SlotDate); ok {
		eventDate = d.Time
	}

	event := &models.Event{
		CattleID:  cattleID,
		EventType: classifyEventType(cmd.RawText),
		EventDate: eventDate,
		Details:   string(note),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return engine.Result{}, err
	}
	return engine.Result{Tag: string(tag), EventType: event.EventType}, nil
}

func (s *commandService) sale(ctx context.Context, cmd *engine.Command, today time.Time) (engine.Result, error) {
	count, ok := cmd.Count()
	if !ok {
		return engine.Result{}, fmt.Errorf("sale command without head count")
	}
	price, ok := cmd.PricePerUnit()
	if !ok {
		return engine.Result{}, fmt.Errorf("sale command without price")
	}
	cattleType := "steer"
	if at, ok := cmd.AnimalType(); ok {
		cattleType = at.Canonical
	}

	saleDate := today
	if d, ok := cmd.Date(engine.SlotDate); ok {
		saleDate = d.Time
	}

	sale := &models.Sale{
		SaleDate:   saleDate,
		HeadCount:  int(count),
		CattleType: cattleType,
	}
	perLb := float64(price.Amount)
	sale.PricePerLb = &perLb

	if w, ok := cmd.AvgWeight(); ok {
		totalWeight := float64(w) * float64(count)
		sale.TotalWeight = &totalWeight
		totalAmount := perLb * totalWeight
		sale.TotalAmount = &totalAmount
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return engine.Result{}, err
	}

	var total float64
	if sale.TotalAmount != nil {
		total = *sale.TotalAmount
	}
	s.logger.Info("Recorded sale",
		zap.Int("head_count", sale.HeadCount),
		zap.Float64("total_amount", total))
	return engine.Result{Count: sale.HeadCount, TotalAmount: total}, nil
}

func (s *commandService) query(ctx context.Context, cmd *engine.Command) (engine.Result, error) {
	switch cmd.QueryType() {
	case engine.QueryLocation:
		tag, ok := cmd.Tag()
		if !ok {
			return engine.Result{}, fmt.Errorf("location query without tag")
		}
		animal, err := s.cattleRepo.GetByTag(ctx, string(tag))
		if errors.Is(err, apperrors.ErrNotFound) {
			return engine.Result{Tag: string(tag)}, nil
		}
		if err != nil {
			return engine.Result{}, err
		}
		return engine.Result{Tag: animal.Tag, Location: animal.LocationName}, nil

	case engine.QueryList:
		herd, err := s.cattleRepo.List(ctx, models.StatusActive)
		if err != nil {
			return engine.Result{}, err
		}
		return engine.Result{Count: len(herd)}, nil

	default: // count
		var cattleType string
		if at, ok := cmd.AnimalType(); ok {
			cattleType = at.Canonical
		}
		var since *time.Time
		if p, ok := cmd.Period(); ok {
			start := p.Start
			since = &start
		}
		count, err := s.cattleRepo.Count(ctx, cattleType, since)
		if err != nil {
			return engine.Result{}, err
		}
		return engine.Result{Count: count}, nil
	}
}

// assignTag returns the tag to record for a new animal: the extracted tag
// uppercased, a COLOR-MMDD tag when only a color word was given, or a
// NEW-MMDD fallback when the message named no tag at all.
func assignTag(cmd *engine.Command, today time.Time) string {
	suffix := today.Format("0102")
	tag, ok := cmd.Tag()
	if !ok {
		return "NEW-" + suffix
	}
	text := strings.ToUpper(string(tag))
	if !strings.ContainsAny(text, "0123456789") {
		return text + "-" + suffix
	}
	return text
}

// eventKeywords orders event type detection; first match wins, anything
// else is a plain note.
var eventKeywords = []struct {
	eventType string
	words     []string
}{
	{models.EventVet, []string{"vet", "veterinarian", "doctor", "checkup", "check up", "check-up"}},
	{models.EventTreatment, []string{"treat", "treated", "treatment", "medicine", "medicate", "dose", "shot", "vaccine", "vaccinated", "wormed", "dewormed"}},
	{models.EventBirth, []string{"born", "birth", "calved", "calving", "dropped"}},
	{models.EventDeath, []string{"died", "dead", "death", "passed", "lost"}},
}

func classifyEventType(text string) string {
	lower := strings.ToLower(text)
	for _, ek := range eventKeywords {
		for _, w := range ek.words {
			if strings.Contains(lower, w) {
				return ek.eventType
			}
		}
	}
	return models.EventNote
}
