package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	"github.com/angelmondragon/potionshop-backend/pkg/metrics"
)

// InventoryAuditJobParams configure the inventory audit.
type InventoryAuditJobParams struct {
	Logger    *logger.Logger
	Inventory snapshotter
	Metrics   *metrics.InventoryMetrics
}

type snapshotter interface {
	Snapshot(ctx context.Context) (*inventory.Snapshot, error)
}

// NewInventoryAuditJob builds the job that recomputes every aggregate from the
// ledgers, publishes them as gauges and fails when any is below zero.
func NewInventoryAuditJob(params InventoryAuditJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	return &inventoryAuditJob{
		logg:      params.Logger,
		inventory: params.Inventory,
		metrics:   params.Metrics,
	}, nil
}

type inventoryAuditJob struct {
	logg      *logger.Logger
	inventory snapshotter
	metrics   *metrics.InventoryMetrics
}

func (j *inventoryAuditJob) Name() string { return "inventory-audit" }

func (j *inventoryAuditJob) Run(ctx context.Context) error {
	snap, err := j.inventory.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("inventory snapshot: %w", err)
	}

	negatives := snap.Negatives()
	mlByColor := make(map[string]int, len(enums.Colors))
	for _, c := range enums.Colors {
		mlByColor[string(c)] = snap.ML.Get(c)
	}
	j.metrics.Set(metrics.InventoryLevels{
		Gold:           snap.Gold,
		MLByColor:      mlByColor,
		Potions:        snap.TotalPotions,
		PotionCapacity: snap.Capacity.PotionCapacity,
		MLCapacity:     snap.Capacity.MLCapacity,
		Negatives:      len(negatives),
	})

	audit := snap.Audit()
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"gold":              audit.Gold,
		"ml_in_barrels":     audit.MLInBarrels,
		"number_of_potions": audit.NumberOfPotions,
		"ml_room":           snap.MLRoom(),
		"potion_room":       snap.PotionRoom(),
	}), "inventory audited")

	var errs error
	for _, name := range negatives {
		errs = multierr.Append(errs, fmt.Errorf("%s is negative", name))
	}
	return errs
}
