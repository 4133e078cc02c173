// Package app assembles repositories and services shared by the binaries.
package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/angelmondragon/potionshop-backend/internal/admin"
	"github.com/angelmondragon/potionshop-backend/internal/bottling"
	"github.com/angelmondragon/potionshop-backend/internal/capacity"
	"github.com/angelmondragon/potionshop-backend/internal/fulfillment"
	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/internal/ledger"
	"github.com/angelmondragon/potionshop-backend/internal/potions"
	"github.com/angelmondragon/potionshop-backend/internal/procurement"
	"github.com/angelmondragon/potionshop-backend/pkg/config"
	"github.com/angelmondragon/potionshop-backend/pkg/db"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	"github.com/angelmondragon/potionshop-backend/pkg/metrics"
	"github.com/angelmondragon/potionshop-backend/pkg/random"
)

// Services is the fully wired domain layer.
type Services struct {
	Ledger      ledger.Service
	Potions     potions.Service
	Inventory   inventory.Service
	Procurement procurement.Service
	Bottling    bottling.Service
	Capacity    capacity.Service
	Fulfillment fulfillment.Service
	Admin       admin.Service
}

// NewServices wires every service on client. Planner metrics register on reg
// when it is non-nil.
func NewServices(cfg *config.Config, client *db.Client, logg *logger.Logger, reg prometheus.Registerer) (*Services, error) {
	ledgerRepo := ledger.NewRepository(client.DB())
	potionRepo := potions.NewRepository(client.DB())
	capacityRepo := inventory.NewCapacityRepository(client.DB())
	plannerMetrics := metrics.NewPlannerMetrics(reg)

	ledgerSvc, err := ledger.NewService(ledgerRepo, client)
	if err != nil {
		return nil, fmt.Errorf("ledger service: %w", err)
	}
	inventorySvc, err := inventory.NewService(ledgerRepo, potionRepo, capacityRepo, client)
	if err != nil {
		return nil, fmt.Errorf("inventory service: %w", err)
	}
	stockAt := func(tx *gorm.DB) potions.StockReader { return ledgerRepo.WithTx(tx) }
	potionSvc, err := potions.NewService(potionRepo, stockAt, client, cfg.Catalog, logg)
	if err != nil {
		return nil, fmt.Errorf("potion service: %w", err)
	}

	procurementPlanner, err := procurement.NewPlanner(cfg.Procurement, random.New(cfg.Procurement.Seed))
	if err != nil {
		return nil, fmt.Errorf("procurement planner: %w", err)
	}
	procurementSvc, err := procurement.NewService(procurementPlanner, inventorySvc, logg, plannerMetrics)
	if err != nil {
		return nil, fmt.Errorf("procurement service: %w", err)
	}

	bottlingPlanner, err := bottling.NewPlanner(cfg.Bottling, random.New(cfg.Bottling.Seed))
	if err != nil {
		return nil, fmt.Errorf("bottling planner: %w", err)
	}
	bottlingSvc, err := bottling.NewService(bottlingPlanner, inventorySvc, potionSvc, logg, plannerMetrics)
	if err != nil {
		return nil, fmt.Errorf("bottling service: %w", err)
	}

	capacityPlanner, err := capacity.NewPlanner(cfg.Capacity, cfg.Shop)
	if err != nil {
		return nil, fmt.Errorf("capacity planner: %w", err)
	}
	capacitySvc, err := capacity.NewService(capacityPlanner, inventorySvc, logg, plannerMetrics)
	if err != nil {
		return nil, fmt.Errorf("capacity service: %w", err)
	}

	fulfillmentSvc, err := fulfillment.NewService(fulfillment.Deps{
		Ledger:     ledgerSvc,
		LedgerRepo: ledgerRepo,
		Potions:    potionRepo,
		Capacity:   capacityRepo,
		Tx:         client,
		Shop:       cfg.Shop,
		Logger:     logg,
	})
	if err != nil {
		return nil, fmt.Errorf("fulfillment service: %w", err)
	}

	adminSvc, err := admin.NewService(ledgerSvc, ledgerRepo, capacityRepo, client, cfg.Shop, logg)
	if err != nil {
		return nil, fmt.Errorf("admin service: %w", err)
	}

	return &Services{
		Ledger:      ledgerSvc,
		Potions:     potionSvc,
		Inventory:   inventorySvc,
		Procurement: procurementSvc,
		Bottling:    bottlingSvc,
		Capacity:    capacitySvc,
		Fulfillment: fulfillmentSvc,
		Admin:       adminSvc,
	}, nil
}
