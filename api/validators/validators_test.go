package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
)

type saleBody struct {
	SKU      string `json:"sku" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type line struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	var dest saleBody
	err := DecodeJSONBody(post(`{"sku":"","quantity":0}`), &dest)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	details := pkgerrors.As(err).Details().(map[string]string)
	require.Equal(t, "is required", details["sku"])
	require.Equal(t, "must be greater than 0", details["quantity"])
}

func TestDecodeJSONBodyRejectsUnknownFieldsAndEmptyBody(t *testing.T) {
	var dest saleBody
	require.Error(t, DecodeJSONBody(post(`{"sku":"RED","quantity":1,"discount":5}`), &dest))
	err := DecodeJSONBody(post(""), &dest)
	require.EqualError(t, err, "VALIDATION_ERROR: request body is required")
}

func TestDecodeJSONListKeepsInvalidLines(t *testing.T) {
	lines, err := DecodeJSONList[line](post(`[{"sku":"RED","quantity":-1}]`))
	require.NoError(t, err)
	require.Equal(t, []line{{SKU: "RED", Quantity: -1}}, lines)

	_, err = DecodeJSONList[line](post(`[]`))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestOrderID(t *testing.T) {
	withParam := func(id string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("order_id", id)
		return post("").WithContext(context.WithValue(context.Background(), chi.RouteCtxKey, rctx))
	}

	id, err := OrderID(withParam(" 42 "))
	require.NoError(t, err)
	require.Equal(t, "42", id)

	_, err = OrderID(withParam(""))
	require.Error(t, err)
	_, err = OrderID(withParam(strings.Repeat("x", maxOrderIDLength+1)))
	require.Error(t, err)
}

func TestQueryInt(t *testing.T) {
	bounds := IntRange{Default: 6, Min: 1, Max: 10}
	get := func(q string) *http.Request { return httptest.NewRequest(http.MethodGet, "/catalog/"+q, nil) }

	v, err := QueryInt(get(""), "limit", bounds)
	require.NoError(t, err)
	require.Equal(t, 6, v)

	v, err = QueryInt(get("?limit=3"), "limit", bounds)
	require.NoError(t, err)
	require.Equal(t, 3, v)

	_, err = QueryInt(get("?limit=11"), "limit", bounds)
	require.ErrorContains(t, err, "between 1 and 10")
	_, err = QueryInt(get("?limit=abc"), "limit", bounds)
	require.ErrorContains(t, err, "must be an integer")
}
