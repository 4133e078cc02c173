package capacity

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	"github.com/angelmondragon/potionshop-backend/pkg/metrics"
)

const plannerName = "capacity"

// SnapshotReader supplies the read-consistent inventory view.
type SnapshotReader interface {
	Snapshot(ctx context.Context) (*inventory.Snapshot, error)
}

// Service runs capacity cycles against the live inventory.
type Service interface {
	Plan(ctx context.Context) (Plan, error)
}

type service struct {
	planner *Planner
	reader  SnapshotReader
	logg    *logger.Logger
	metrics *metrics.PlannerMetrics
}

// NewService wires the capacity service. metrics may be nil.
func NewService(planner *Planner, reader SnapshotReader, logg *logger.Logger, m *metrics.PlannerMetrics) (Service, error) {
	if planner == nil {
		return nil, fmt.Errorf("capacity planner required")
	}
	if reader == nil {
		return nil, fmt.Errorf("snapshot reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{planner: planner, reader: reader, logg: logg, metrics: m}, nil
}

func (s *service) Plan(ctx context.Context) (Plan, error) {
	start := time.Now()
	ctx = s.logg.WithPlanner(ctx, plannerName)

	snap, err := s.reader.Snapshot(ctx)
	if err != nil {
		s.metrics.ObserveCycle(plannerName, 0, true, time.Since(start))
		s.logg.Error(ctx, "capacity cycle aborted", err)
		return Plan{}, err
	}

	plan := s.planner.Plan(Input{
		Gold:     snap.Gold,
		Potions:  snap.TotalPotions,
		ML:       snap.TotalML(),
		Capacity: snap.Capacity,
	})

	s.metrics.ObserveCycle(plannerName, plan.Units(), false, time.Since(start))
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"gold":            snap.Gold,
		"potion_capacity": plan.PotionCapacityUnits,
		"ml_capacity":     plan.MLCapacityUnits,
	}), "capacity plan ready")
	return plan, nil
}
