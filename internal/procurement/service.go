package procurement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	"github.com/angelmondragon/potionshop-backend/pkg/metrics"
)

const plannerName = "procurement"

// SnapshotReader supplies the read-consistent inventory view.
type SnapshotReader interface {
	Snapshot(ctx context.Context) (*inventory.Snapshot, error)
}

// Service runs procurement cycles against the live inventory.
type Service interface {
	Plan(ctx context.Context, catalog []Barrel) ([]PurchaseLine, error)
}

type service struct {
	mu      sync.Mutex
	planner *Planner
	reader  SnapshotReader
	logg    *logger.Logger
	metrics *metrics.PlannerMetrics
}

// NewService wires the procurement service. metrics may be nil.
func NewService(planner *Planner, reader SnapshotReader, logg *logger.Logger, m *metrics.PlannerMetrics) (Service, error) {
	if planner == nil {
		return nil, fmt.Errorf("procurement planner required")
	}
	if reader == nil {
		return nil, fmt.Errorf("snapshot reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{planner: planner, reader: reader, logg: logg, metrics: m}, nil
}

// Plan validates the catalog, snapshots inventory and runs the planner. A
// snapshot failure aborts the cycle with no partial plan.
func (s *service) Plan(ctx context.Context, catalog []Barrel) ([]PurchaseLine, error) {
	start := time.Now()
	ctx = s.logg.WithPlanner(ctx, plannerName)

	lots := s.validLots(ctx, catalog)

	snap, err := s.reader.Snapshot(ctx)
	if err != nil {
		s.metrics.ObserveCycle(plannerName, 0, true, time.Since(start))
		s.logg.Error(ctx, "procurement cycle aborted", err)
		return nil, err
	}

	s.mu.Lock()
	plan := s.planner.Plan(Input{
		Lots:       lots,
		Gold:       snap.Gold,
		ML:         snap.ML,
		MLCapacity: snap.Capacity.MLCapacity,
	})
	s.mu.Unlock()

	s.metrics.ObserveCycle(plannerName, len(plan), false, time.Since(start))
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"gold":    snap.Gold,
		"ml_room": snap.MLRoom(),
		"lots":    len(lots),
		"lines":   len(plan),
	}), "procurement plan ready")
	return plan, nil
}

func (s *service) validLots(ctx context.Context, catalog []Barrel) []Lot {
	lots := make([]Lot, 0, len(catalog))
	rejected := 0
	for _, barrel := range catalog {
		lot, err := LotFromBarrel(barrel)
		if err != nil {
			rejected++
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"sku": barrel.SKU, "reason": err.Error()}), "excluding invalid lot")
			continue
		}
		lots = append(lots, lot)
	}
	s.metrics.AddRejected(plannerName, rejected)
	return lots
}
