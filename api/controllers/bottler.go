package controllers

import (
	"net/http"

	"github.com/angelmondragon/potionshop-backend/api/responses"
	"github.com/angelmondragon/potionshop-backend/api/validators"
	"github.com/angelmondragon/potionshop-backend/internal/bottling"
	"github.com/angelmondragon/potionshop-backend/internal/fulfillment"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
)

func BottlerPlan(svc bottling.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plan, err := svc.Plan(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}

func BottlerDeliver(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.OrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lines, err := validators.DecodeJSONList[fulfillment.BottleDelivery](r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeDelivery(w, r, logg)(svc.DeliverBottles(r.Context(), orderID, lines))
	}
}
