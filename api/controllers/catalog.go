package controllers

import (
	"net/http"

	"github.com/angelmondragon/potionshop-backend/api/responses"
	"github.com/angelmondragon/potionshop-backend/api/validators"
	"github.com/angelmondragon/potionshop-backend/internal/potions"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
)

var catalogLimit = validators.IntRange{Default: 50, Min: 1, Max: 50}

// Catalog lists what customers can buy right now. An optional limit query
// parameter trims the list further.
func Catalog(svc potions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.QueryInt(r, "limit", catalogLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries, err := svc.Catalog(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(entries) > limit {
			entries = entries[:limit]
		}
		responses.WriteSuccess(w, entries)
	}
}
