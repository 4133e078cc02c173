package controllers

import (
	"net/http"

	"github.com/angelmondragon/potionshop-backend/api/responses"
	"github.com/angelmondragon/potionshop-backend/api/validators"
	"github.com/angelmondragon/potionshop-backend/internal/capacity"
	"github.com/angelmondragon/potionshop-backend/internal/fulfillment"
	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
)

// CapacityPurchaseRequest is the body of a capacity delivery.
type CapacityPurchaseRequest struct {
	PotionCapacity int `json:"potion_capacity" validate:"gte=0,lte=1"`
	MLCapacity     int `json:"ml_capacity" validate:"gte=0,lte=1"`
}

func InventoryAudit(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		audit, err := svc.Audit(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, audit)
	}
}

func InventoryPlan(svc capacity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plan, err := svc.Plan(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}

func InventoryDeliver(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.OrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body CapacityPurchaseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		plan := capacity.Plan{PotionCapacityUnits: body.PotionCapacity, MLCapacityUnits: body.MLCapacity}
		writeDelivery(w, r, logg)(svc.DeliverCapacity(r.Context(), orderID, plan))
	}
}

// writeDelivery renders a fulfillment outcome.
func writeDelivery(w http.ResponseWriter, r *http.Request, logg *logger.Logger) func(*fulfillment.Result, error) {
	return func(res *fulfillment.Result, err error) {
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, res)
	}
}
