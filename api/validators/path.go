package validators

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
)

const maxOrderIDLength = 128

// OrderID reads the order_id path parameter every delivery route carries.
func OrderID(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "order_id"))
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if len(id) > maxOrderIDLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order id is too long").WithDetails(map[string]any{"max": maxOrderIDLength})
	}
	return id, nil
}
