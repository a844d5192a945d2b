package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/bootstrap"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type apiClient struct {
	t    *testing.T
	app  *fiber.App
	auth string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	st, err := bootstrap.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(st.Close)
	svc := bootstrap.NewServices(st, config.LedgerConfig{
		LockTimeout:      2 * time.Second,
		RetryAttempts:    2,
		RetryBackoff:     time.Millisecond,
		SweepConcurrency: 2,
	}, nil, logger.Nop())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ItemUC:           svc.Items,
		RegisterMovement: svc.Register,
		Ledger:           svc.Ledger,
		Replenishment:    svc.Replenishment,
		Import:           svc.Import,
		Alerts:           svc.Alerts,
		DashboardUC:      svc.Dashboard,
		JWTSecret:        testJWTSecret,
	})
	return &apiClient{t: t, app: app, auth: bearer(t, testActorID)}
}

func (a *apiClient) do(method, path string, body any) *http.Response {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", a.auth)
	if body != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (a *apiClient) createItem(code string, minimum int64) dto.ItemResponse {
	a.t.Helper()
	resp := a.do(http.MethodPost, "/api/items", map[string]any{
		"code": code, "name": "Ítem " + code, "unit_price": "3.00", "minimum": minimum, "maximum": 200,
	})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ItemResponse](a.t, resp)
}

func (a *apiClient) move(itemID, kind string, qty int64) *http.Response {
	a.t.Helper()
	return a.do(http.MethodPost, "/api/inventory/movements", dto.ApplyMovementRequest{ItemID: itemID, Kind: kind, Quantity: qty})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de rutas
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_RequiereToken(t *testing.T) {
	api := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_MovimientosYAlertas(t *testing.T) {
	api := newAPI(t)
	item := api.createItem("API-1", 5)
	assert.Equal(t, int64(0), item.Balance)
	assert.Equal(t, "OUT_OF_STOCK", item.Status)

	resp := api.move(item.ID, "adjust", 10)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mv := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, int64(0), mv.PreviousBalance)
	assert.Equal(t, int64(10), mv.NewBalance)

	resp = api.move(item.ID, "OUT", 100)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_BALANCE", decode[dto.ErrorResponse](t, resp).Code)

	resp = api.move(item.ID, "IN", 0)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUANTITY", decode[dto.ErrorResponse](t, resp).Code)

	resp = api.move("no-existe", "IN", 1)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = api.move(item.ID, "OUT", 6)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(http.MethodGet, "/api/alerts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	open := decode[[]dto.AlertResponse](t, resp)
	require.Len(t, open, 1)
	assert.Equal(t, item.ID, open[0].ItemID)
	assert.Equal(t, int64(4), open[0].BalanceSnapshot)

	resp = api.do(http.MethodPost, "/api/alerts/"+open[0].ID+"/resolve", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resolved := decode[dto.AlertResponse](t, resp)
	assert.True(t, resolved.IsResolved)
	assert.Equal(t, testActorID, resolved.ResolvedBy)

	resp = api.do(http.MethodPost, "/api/alerts/no-existe/resolve", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(http.MethodGet, "/api/inventory/movements?item_id="+item.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ledger := decode[dto.LedgerResponse](t, resp)
	require.Len(t, ledger.Items, 2)
	assert.Equal(t, "ADJUST", ledger.Items[0].Kind)
	assert.Equal(t, testActorID, ledger.Items[1].CreatedBy)

	resp = api.do(http.MethodGet, "/api/inventory/movements?date_from=ayer", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(http.MethodGet, "/api/inventory/items/"+item.ID+"/audit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.AuditResponse](t, resp).Consistent)
}

func TestAPI_ItemsListaYActualiza(t *testing.T) {
	api := newAPI(t)
	a := api.createItem("LST-1", 5)
	api.createItem("LST-2", 5)

	resp := api.do(http.MethodPost, "/api/items", map[string]any{"code": "LST-1", "name": "dup", "maximum": 10})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(http.MethodPut, "/api/items/"+a.ID, map[string]any{"minimum": 50, "maximum": 10})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(http.MethodPut, "/api/items/"+a.ID, map[string]any{"name": "Renombrado"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Renombrado", decode[dto.ItemResponse](t, resp).Name)

	resp = api.do(http.MethodGet, "/api/items?status=low&search=LST&limit=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ItemListResponse](t, resp)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Page.Limit)

	resp = api.do(http.MethodGet, "/api/items?status=raro", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(http.MethodGet, "/api/items/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_ImportCSV(t *testing.T) {
	api := newAPI(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "catalogo.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, "code,name,unit_price,minimum_stock,maximum_stock,current_stock\n"+
		"CSV-1,Martillo,12.5,2,40,8\n"+
		"CSV-2,Sin precio,abc,2,40,8\n")
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/inventory/import/csv", &buf)
	req.Header.Set("Authorization", api.auth)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[dto.ImportResult](t, resp)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Adjusted)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Fila 3")

	resp = api.do(http.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[dto.DashboardSummaryDTO](t, resp)
	assert.Equal(t, int64(1), summary.TotalItems)
	assert.True(t, summary.InventoryValue.Equal(decimal.NewFromInt(100)), "got %s", summary.InventoryValue)
}

func TestAPI_ImportJSONVacio(t *testing.T) {
	api := newAPI(t)
	resp := api.do(http.MethodPost, "/api/inventory/import", dto.ImportRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_Dashboard(t *testing.T) {
	api := newAPI(t)
	item := api.createItem("DB-1", 5)
	resp := api.move(item.ID, "IN", 3)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(http.MethodGet, "/api/dashboard/movement-stats?days=3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[dto.MovementStatsDTO](t, resp)
	assert.Len(t, stats.Days, 3)

	resp = api.do(http.MethodGet, "/api/dashboard/movement-stats?days=0", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(http.MethodGet, "/api/dashboard/overview", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	overview := decode[dto.DashboardOverviewDTO](t, resp)
	assert.Equal(t, int64(1), overview.Summary.UnresolvedAlerts)

	resp = api.do(http.MethodGet, "/api/inventory/replenishment-list", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]dto.ReplenishmentSuggestionDTO](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, int64(197), list[0].SuggestedOrderQty)

	resp = api.do(http.MethodGet, "/api/inventory/replenishment-list/pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	doc, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}
