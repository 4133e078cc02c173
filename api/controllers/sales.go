package controllers

import (
	"net/http"

	"github.com/angelmondragon/potionshop-backend/api/validators"
	"github.com/angelmondragon/potionshop-backend/internal/fulfillment"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
)

// SaleRequest is one checked-out cart line.
type SaleRequest struct {
	SKU      string `json:"sku" validate:"required,max=64"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

func RecordSale(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.OrderID(r)
		if err != nil {
			writeDelivery(w, r, logg)(nil, err)
			return
		}
		var body SaleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			writeDelivery(w, r, logg)(nil, err)
			return
		}
		writeDelivery(w, r, logg)(svc.RecordSale(r.Context(), orderID, body.SKU, body.Quantity))
	}
}
