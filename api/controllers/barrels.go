package controllers

import (
	"net/http"

	"github.com/angelmondragon/potionshop-backend/api/responses"
	"github.com/angelmondragon/potionshop-backend/api/validators"
	"github.com/angelmondragon/potionshop-backend/internal/fulfillment"
	"github.com/angelmondragon/potionshop-backend/internal/procurement"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
)

// BarrelsPlan answers the wholesaler's catalog with a purchase plan. Malformed
// lots are dropped by the planner, not rejected here.
func BarrelsPlan(svc procurement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalog, err := validators.DecodeJSONList[procurement.Barrel](r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		plan, err := svc.Plan(r.Context(), catalog)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}

func BarrelsDeliver(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.OrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		barrels, err := validators.DecodeJSONList[procurement.Barrel](r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeDelivery(w, r, logg)(svc.DeliverBarrels(r.Context(), orderID, barrels))
	}
}
