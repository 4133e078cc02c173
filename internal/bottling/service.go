package bottling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/internal/potions"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	"github.com/angelmondragon/potionshop-backend/pkg/metrics"
)

const plannerName = "bottling"

// SnapshotReader supplies the read-consistent inventory view.
type SnapshotReader interface {
	Snapshot(ctx context.Context) (*inventory.Snapshot, error)
}

// RecipeFilter drops potions whose recipes cannot be planned.
type RecipeFilter interface {
	Recipes(ctx context.Context, potions []models.Potion) []potions.Recipe
}

// Service runs bottling cycles against the live inventory.
type Service interface {
	Plan(ctx context.Context) ([]BottleLine, error)
}

type service struct {
	mu      sync.Mutex
	planner *Planner
	reader  SnapshotReader
	recipes RecipeFilter
	logg    *logger.Logger
	metrics *metrics.PlannerMetrics
}

// NewService wires the bottling service. metrics may be nil.
func NewService(planner *Planner, reader SnapshotReader, recipes RecipeFilter, logg *logger.Logger, m *metrics.PlannerMetrics) (Service, error) {
	if planner == nil {
		return nil, fmt.Errorf("bottling planner required")
	}
	if reader == nil {
		return nil, fmt.Errorf("snapshot reader required")
	}
	if recipes == nil {
		return nil, fmt.Errorf("recipe filter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{planner: planner, reader: reader, recipes: recipes, logg: logg, metrics: m}, nil
}

func (s *service) Plan(ctx context.Context) ([]BottleLine, error) {
	start := time.Now()
	ctx = s.logg.WithPlanner(ctx, plannerName)

	snap, err := s.reader.Snapshot(ctx)
	if err != nil {
		s.metrics.ObserveCycle(plannerName, 0, true, time.Since(start))
		s.logg.Error(ctx, "bottling cycle aborted", err)
		return nil, err
	}

	catalog := make([]models.Potion, 0, len(snap.Potions))
	for _, ps := range snap.Potions {
		catalog = append(catalog, ps.Potion)
	}
	recipes := s.recipes.Recipes(ctx, catalog)
	s.metrics.AddRejected(plannerName, len(catalog)-len(recipes))

	candidates := make([]Candidate, 0, len(recipes))
	for _, r := range recipes {
		candidates = append(candidates, Candidate{
			PotionID: r.ID,
			SKU:      r.SKU,
			Mix:      r.Mix,
			Price:    r.Price,
			Stock:    snap.StockOf(r.ID),
		})
	}

	s.mu.Lock()
	plan := s.planner.Plan(Input{
		ML:             snap.ML,
		Candidates:     candidates,
		PotionCapacity: snap.Capacity.PotionCapacity,
	})
	s.mu.Unlock()

	s.metrics.ObserveCycle(plannerName, len(plan), false, time.Since(start))
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"ml":          snap.ML.Ints(),
		"outstanding": snap.TotalPotions,
		"capacity":    snap.Capacity.PotionCapacity,
		"lines":       len(plan),
	}), "bottling plan ready")
	return plan, nil
}
