package controllers

import (
	"net/http"

	"github.com/angelmondragon/potionshop-backend/api/responses"
	"github.com/angelmondragon/potionshop-backend/api/validators"
	"github.com/angelmondragon/potionshop-backend/internal/admin"
	"github.com/angelmondragon/potionshop-backend/internal/potions"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
)

func AdminReset(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Reset(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, res)
	}
}

// AdminUpsertPotion creates or updates a recipe by SKU.
func AdminUpsertPotion(svc potions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body potions.UpsertInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		potion, err := svc.Upsert(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"id":          potion.ID,
			"sku":         potion.SKU,
			"name":        potion.Name,
			"price":       potion.Price,
			"potion_type": []int64(potion.PotionType),
		})
	}
}
