package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/potionshop-backend/internal/admin"
	"github.com/angelmondragon/potionshop-backend/internal/bottling"
	"github.com/angelmondragon/potionshop-backend/internal/capacity"
	"github.com/angelmondragon/potionshop-backend/internal/fulfillment"
	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/internal/potions"
	"github.com/angelmondragon/potionshop-backend/internal/procurement"
	"github.com/angelmondragon/potionshop-backend/pkg/config"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *types.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func withOrderID(req *http.Request, id string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("order_id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

type stubCatalog struct {
	potions.Service
	entries []potions.CatalogEntry
}

func (s stubCatalog) Catalog(context.Context) ([]potions.CatalogEntry, error) {
	return s.entries, nil
}

type stubProcurement struct {
	got []procurement.Barrel
}

func (s *stubProcurement) Plan(_ context.Context, catalog []procurement.Barrel) ([]procurement.PurchaseLine, error) {
	s.got = catalog
	return []procurement.PurchaseLine{{SKU: "SMALL_RED_BARREL", Quantity: 1}}, nil
}

type stubBottling struct{}

func (stubBottling) Plan(context.Context) ([]bottling.BottleLine, error) {
	return []bottling.BottleLine{}, nil
}

type stubCapacity struct{ plan capacity.Plan }

func (s stubCapacity) Plan(context.Context) (capacity.Plan, error) { return s.plan, nil }

type stubInventory struct {
	inventory.Service
	err error
}

func (s stubInventory) Audit(context.Context) (*inventory.Audit, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &inventory.Audit{NumberOfPotions: 3, MLInBarrels: 500, Gold: 40}, nil
}

type stubFulfillment struct {
	orderRef string
	barrels  []procurement.Barrel
	bottles  []fulfillment.BottleDelivery
	plan     capacity.Plan
	sku      string
	qty      int
	err      error
}

func (s *stubFulfillment) result() (*fulfillment.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &fulfillment.Result{OrderRef: s.orderRef, Accepted: []fulfillment.LineResult{{Index: 0}}}, nil
}

func (s *stubFulfillment) DeliverBarrels(_ context.Context, ref string, b []procurement.Barrel) (*fulfillment.Result, error) {
	s.orderRef, s.barrels = ref, b
	return s.result()
}

func (s *stubFulfillment) DeliverBottles(_ context.Context, ref string, lines []fulfillment.BottleDelivery) (*fulfillment.Result, error) {
	s.orderRef, s.bottles = ref, lines
	return s.result()
}

func (s *stubFulfillment) DeliverCapacity(_ context.Context, ref string, plan capacity.Plan) (*fulfillment.Result, error) {
	s.orderRef, s.plan = ref, plan
	return s.result()
}

func (s *stubFulfillment) RecordSale(_ context.Context, ref, sku string, qty int) (*fulfillment.Result, error) {
	s.orderRef, s.sku, s.qty = ref, sku, qty
	return s.result()
}

type stubAdmin struct{}

func (stubAdmin) Reset(context.Context) (*admin.ResetResult, error) {
	return &admin.ResetResult{Gold: 100, PotionCapacity: 50, MLCapacity: 10000}, nil
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestCatalogAppliesLimit(t *testing.T) {
	svc := stubCatalog{entries: []potions.CatalogEntry{
		{SKU: "RED_POTION", Quantity: 4},
		{SKU: "GREEN_POTION", Quantity: 2},
	}}
	resp := httptest.NewRecorder()
	Catalog(svc, nil)(resp, httptest.NewRequest(http.MethodGet, "/catalog/?limit=1", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	var entries []potions.CatalogEntry
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &entries))
	require.Len(t, entries, 1)
	require.Equal(t, "RED_POTION", entries[0].SKU)

	resp = httptest.NewRecorder()
	Catalog(svc, nil)(resp, httptest.NewRequest(http.MethodGet, "/catalog/?limit=zero", nil))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestBarrelsPlanPassesCatalog(t *testing.T) {
	svc := &stubProcurement{}
	body := `[{"sku":"SMALL_RED_BARREL","ml_per_barrel":500,"potion_type":[1,0,0,0],"price":100,"quantity":10},
	          {"sku":"BROKEN","ml_per_barrel":0,"potion_type":[1,1],"price":1,"quantity":1}]`
	resp := httptest.NewRecorder()
	BarrelsPlan(svc, nil)(resp, httptest.NewRequest(http.MethodPost, "/barrels/plan", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, svc.got, 2, "malformed lots reach the planner")
	var lines []procurement.PurchaseLine
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &lines))
	require.Equal(t, []procurement.PurchaseLine{{SKU: "SMALL_RED_BARREL", Quantity: 1}}, lines)
}

func TestBarrelsPlanRejectsEmptyCatalog(t *testing.T) {
	resp := httptest.NewRecorder()
	BarrelsPlan(&stubProcurement{}, nil)(resp, httptest.NewRequest(http.MethodPost, "/barrels/plan", strings.NewReader(`[]`)))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestBarrelsDeliverUsesOrderID(t *testing.T) {
	svc := &stubFulfillment{}
	req := withOrderID(httptest.NewRequest(http.MethodPost, "/barrels/deliver/17",
		strings.NewReader(`[{"sku":"SMALL_RED_BARREL","ml_per_barrel":500,"potion_type":[1,0,0,0],"price":100,"quantity":1}]`)), "17")
	resp := httptest.NewRecorder()
	BarrelsDeliver(svc, nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "17", svc.orderRef)
	require.Len(t, svc.barrels, 1)
}

func TestDeliveryMapsInsufficientResources(t *testing.T) {
	svc := &stubFulfillment{err: pkgerrors.New(pkgerrors.CodeInsufficient, "no line item could be applied")}
	req := withOrderID(httptest.NewRequest(http.MethodPost, "/bottler/deliver/3",
		strings.NewReader(`[{"potion_type":[100,0,0,0],"quantity":5}]`)), "3")
	resp := httptest.NewRecorder()
	BottlerDeliver(svc, nil)(resp, req)

	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	env := decodeEnvelope(t, resp)
	require.Equal(t, string(pkgerrors.CodeInsufficient), env.Error.Code)
	require.Equal(t, []fulfillment.BottleDelivery{{PotionType: []int64{100, 0, 0, 0}, Quantity: 5}}, svc.bottles)
}

func TestInventoryDeliverDecodesCapacityPurchase(t *testing.T) {
	svc := &stubFulfillment{}
	req := withOrderID(httptest.NewRequest(http.MethodPost, "/inventory/deliver/9",
		strings.NewReader(`{"potion_capacity":1,"ml_capacity":1}`)), "9")
	resp := httptest.NewRecorder()
	InventoryDeliver(svc, nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, capacity.Plan{PotionCapacityUnits: 1, MLCapacityUnits: 1}, svc.plan)

	for _, body := range []string{
		`{"potion_capacity":-1,"ml_capacity":0}`,
		`{"potion_capacity":0,"ml_capacity":2}`,
		`{"potion_capacity":10000000000000000,"ml_capacity":0}`,
	} {
		svc.plan = capacity.Plan{}
		req = withOrderID(httptest.NewRequest(http.MethodPost, "/inventory/deliver/9", strings.NewReader(body)), "9")
		resp = httptest.NewRecorder()
		InventoryDeliver(svc, nil)(resp, req)
		require.Equal(t, http.StatusBadRequest, resp.Code, body)
		require.Equal(t, capacity.Plan{}, svc.plan, body)
	}
}

func TestRecordSaleValidatesBody(t *testing.T) {
	svc := &stubFulfillment{}
	req := withOrderID(httptest.NewRequest(http.MethodPost, "/sales/c1", strings.NewReader(`{"sku":"RED_POTION","quantity":0}`)), "c1")
	resp := httptest.NewRecorder()
	RecordSale(svc, nil)(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Empty(t, svc.sku)

	req = withOrderID(httptest.NewRequest(http.MethodPost, "/sales/c1", strings.NewReader(`{"sku":"RED_POTION","quantity":2}`)), "c1")
	resp = httptest.NewRecorder()
	RecordSale(svc, nil)(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "RED_POTION", svc.sku)
	require.Equal(t, 2, svc.qty)
}

func TestDeliveryRequiresOrderID(t *testing.T) {
	resp := httptest.NewRecorder()
	RecordSale(&stubFulfillment{}, nil)(resp, httptest.NewRequest(http.MethodPost, "/sales/", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPlansAndAudit(t *testing.T) {
	resp := httptest.NewRecorder()
	InventoryPlan(stubCapacity{plan: capacity.Plan{PotionCapacityUnits: 1}}, nil)(resp, httptest.NewRequest(http.MethodPost, "/inventory/plan", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"potion_capacity":1,"ml_capacity":0}`, string(decodeEnvelope(t, resp).Data))

	resp = httptest.NewRecorder()
	BottlerPlan(stubBottling{}, nil)(resp, httptest.NewRequest(http.MethodPost, "/bottler/plan", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `[]`, string(decodeEnvelope(t, resp).Data))

	resp = httptest.NewRecorder()
	InventoryAudit(stubInventory{}, nil)(resp, httptest.NewRequest(http.MethodGet, "/inventory/audit", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"number_of_potions":3,"ml_in_barrels":500,"gold":40}`, string(decodeEnvelope(t, resp).Data))

	resp = httptest.NewRecorder()
	InventoryAudit(stubInventory{err: errors.New("db down")}, nil)(resp, httptest.NewRequest(http.MethodGet, "/inventory/audit", nil))
	require.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestAdminReset(t *testing.T) {
	resp := httptest.NewRecorder()
	AdminReset(stubAdmin{}, nil)(resp, httptest.NewRequest(http.MethodPost, "/admin/reset", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	var res admin.ResetResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &res))
	require.Equal(t, 100, res.Gold)
}

type stubUpsert struct {
	potions.Service
	got potions.UpsertInput
}

func (s *stubUpsert) Upsert(_ context.Context, in potions.UpsertInput) (*models.Potion, error) {
	s.got = in
	return &models.Potion{ID: 4, SKU: in.SKU, Name: in.Name, Price: in.Price, PotionType: []int64{50, 50, 0, 0}}, nil
}

func TestAdminUpsertPotion(t *testing.T) {
	svc := &stubUpsert{}
	body := `{"sku":"YELLOW_POTION","name":"Yellow","price":45,"potion_type":[50,50,0,0]}`
	resp := httptest.NewRecorder()
	AdminUpsertPotion(svc, nil)(resp, httptest.NewRequest(http.MethodPost, "/admin/potions", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, types.PotionMix{50, 50, 0, 0}, svc.got.PotionType)

	resp = httptest.NewRecorder()
	AdminUpsertPotion(svc, nil)(resp, httptest.NewRequest(http.MethodPost, "/admin/potions", strings.NewReader(`{"sku":""}`)))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	resp := httptest.NewRecorder()
	HealthReady(cfg, nil, stubPinger{}, nil)(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "test", resp.Header().Get(envHeader))
	require.JSONEq(t, `{"status":"ready","checks":{"database":"ok","redis":"disabled"}}`, string(decodeEnvelope(t, resp).Data))

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, stubPinger{err: errors.New("refused")}, nil)(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
