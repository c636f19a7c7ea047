package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopkit/tradepost/internal/config"
	"github.com/shopkit/tradepost/internal/migration"
	"github.com/shopkit/tradepost/internal/observability"
	"github.com/shopkit/tradepost/internal/outbox"
	"github.com/shopkit/tradepost/internal/server"
	"github.com/shopkit/tradepost/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// The suite boots the full fx app against a real database and drives it
// over HTTP. It only runs when TRADEPOST_E2E is set; without it every test
// skips so the package stays part of the normal test run.

type testEnv struct {
	app     *fx.App
	db      *gorm.DB
	cfg     config.Config
	httpSrv *httptest.Server
	baseURL string
}

var env *testEnv

func TestMain(m *testing.M) {
	if os.Getenv("TRADEPOST_E2E") == "" {
		os.Exit(m.Run())
	}

	gin.SetMode(gin.TestMode)
	setDefaultEnv()

	var err error
	env, err = startEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start test environment:", err)
		os.Exit(1)
	}

	code := m.Run()
	env.shutdown()
	os.Exit(code)
}

func requireEnv(t *testing.T) *testEnv {
	t.Helper()
	if env == nil {
		t.Skip("set TRADEPOST_E2E=1 and point DATABASE_* at a disposable postgres to run")
	}
	return env
}

func setDefaultEnv() {
	setEnvIfEmpty("ENVIRONMENT", "test")
	setEnvIfEmpty("HTTP_ADDR", "127.0.0.1:0")
	setEnvIfEmpty("DATABASE_NAME", "tradepost_test")
	setEnvIfEmpty("LOG_LEVEL", "error")
	setEnvIfEmpty("OTEL_ENABLED", "false")
	// Keep outbox rows in place so tests can assert on them.
	setEnvIfEmpty("OUTBOX_RELAY_ENABLED", "false")
}

func setEnvIfEmpty(key, value string) {
	if os.Getenv(key) == "" {
		os.Setenv(key, value)
	}
}

func startEnv() (*testEnv, error) {
	var (
		engine *gin.Engine
		conn   *gorm.DB
		cfg    config.Config
	)

	app := fx.New(
		fx.NopLogger,
		observability.Module,
		fx.Provide(func() (*snowflake.Node, error) { return snowflake.NewNode(1) }),
		db.Module,
		server.Module,
		migration.Module,
		fx.Populate(&engine, &conn, &cfg),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return nil, err
	}

	httpSrv := httptest.NewServer(engine)
	return &testEnv{
		app:     app,
		db:      conn,
		cfg:     cfg,
		httpSrv: httpSrv,
		baseURL: httpSrv.URL,
	}, nil
}

func (e *testEnv) shutdown() {
	if e == nil {
		return
	}
	if e.httpSrv != nil {
		e.httpSrv.Close()
	}
	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = e.app.Stop(stopCtx)
}

type apiResponse struct {
	status int
	body   []byte
}

func (e *testEnv) doJSON(t *testing.T, method, path, orgID string, payload any) apiResponse {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.baseURL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if orgID != "" {
		req.Header.Set(server.HeaderOrg, orgID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return apiResponse{status: resp.StatusCode, body: raw}
}

func mustStatus(t *testing.T, resp apiResponse, want int, what string) {
	t.Helper()
	if resp.status != want {
		t.Fatalf("%s: expected status %d, got %d: %s", what, want, resp.status, resp.body)
	}
}

func decodeData(t *testing.T, resp apiResponse, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.body, &envelope); err != nil {
		t.Fatalf("decode envelope: %v: %s", err, resp.body)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v: %s", err, envelope.Data)
	}
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func decodeError(t *testing.T, resp apiResponse) apiError {
	t.Helper()
	var envelope struct {
		Error apiError `json:"error"`
	}
	if err := json.Unmarshal(resp.body, &envelope); err != nil {
		t.Fatalf("decode error envelope: %v: %s", err, resp.body)
	}
	return envelope.Error
}

func (e *testEnv) createOrg(t *testing.T, name string) string {
	t.Helper()
	resp := e.doJSON(t, http.MethodPost, "/admin/organizations", "", map[string]any{"name": name})
	mustStatus(t, resp, http.StatusOK, "create org")
	var org struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, &org)
	return org.ID
}

// cleanupPrefix sweeps every org created by a test. The swept org itself
// carries the header because the cleanup route sits inside OrgContext.
func (e *testEnv) cleanupPrefix(t *testing.T, orgID, prefix string) {
	t.Helper()
	resp := e.doJSON(t, http.MethodPost, "/admin/test/cleanup", orgID, map[string]any{"prefix": prefix})
	if resp.status != http.StatusOK {
		t.Errorf("cleanup %q: status %d: %s", prefix, resp.status, resp.body)
	}
}

func (e *testEnv) createTaxRate(t *testing.T, orgID, name string, rate float64) string {
	t.Helper()
	resp := e.doJSON(t, http.MethodPost, "/admin/tax-rates", orgID, map[string]any{
		"name":     name,
		"tax_type": "VAT",
		"rate":     rate,
	})
	mustStatus(t, resp, http.StatusOK, "create tax rate")
	var rateResp struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, &rateResp)
	return rateResp.ID
}

func (e *testEnv) createProduct(t *testing.T, orgID string, payload map[string]any) string {
	t.Helper()
	resp := e.doJSON(t, http.MethodPost, "/admin/products", orgID, payload)
	mustStatus(t, resp, http.StatusOK, "create product")
	var product struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, &product)
	return product.ID
}

func TestE2E_HealthCheck(t *testing.T) {
	e := requireEnv(t)

	resp, err := http.Get(e.baseURL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestE2E_DefaultOrgBootstrap(t *testing.T) {
	e := requireEnv(t)

	resp := e.doJSON(t, http.MethodGet, "/admin/organizations", "", nil)
	mustStatus(t, resp, http.StatusOK, "list orgs")

	var orgs []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		IsDefault bool   `json:"is_default"`
	}
	decodeData(t, resp, &orgs)

	var defaultOrg string
	for _, org := range orgs {
		if org.IsDefault {
			defaultOrg = org.ID
			break
		}
	}
	if defaultOrg == "" {
		t.Fatalf("no default org seeded: %s", resp.body)
	}

	locResp := e.doJSON(t, http.MethodGet, "/admin/locations", defaultOrg, nil)
	mustStatus(t, locResp, http.StatusOK, "list locations")
	var locations []struct {
		Code string `json:"code"`
	}
	decodeData(t, locResp, &locations)
	for _, loc := range locations {
		if loc.Code == "MAIN" {
			return
		}
	}
	t.Fatalf("default MAIN location missing: %s", locResp.body)
}

func TestE2E_OrgHeaderEnforcement(t *testing.T) {
	e := requireEnv(t)

	resp := e.doJSON(t, http.MethodGet, "/admin/products", "", nil)
	mustStatus(t, resp, http.StatusBadRequest, "missing header")
	apiErr := decodeError(t, resp)
	if len(apiErr.Errors) != 1 || apiErr.Errors[0].Code != "org_required" {
		t.Fatalf("expected org_required, got %s", resp.body)
	}

	resp = e.doJSON(t, http.MethodGet, "/admin/products", "not-a-snowflake", nil)
	mustStatus(t, resp, http.StatusBadRequest, "bad header")
	apiErr = decodeError(t, resp)
	if len(apiErr.Errors) != 1 || apiErr.Errors[0].Code != "invalid_org" {
		t.Fatalf("expected invalid_org, got %s", resp.body)
	}
}

func TestE2E_MasterDataAndConflicts(t *testing.T) {
	e := requireEnv(t)
	orgID := e.createOrg(t, "E2E Master")
	defer e.cleanupPrefix(t, orgID, "E2E Master")

	productID := e.createProduct(t, orgID, map[string]any{
		"sku":        "E2E-WIDGET",
		"name":       "Widget",
		"list_price": 25,
	})

	dup := e.doJSON(t, http.MethodPost, "/admin/products", orgID, map[string]any{
		"sku":        "e2e-widget",
		"name":       "Widget Again",
		"list_price": 30,
	})
	mustStatus(t, dup, http.StatusConflict, "duplicate sku")

	get := e.doJSON(t, http.MethodGet, "/admin/products/"+productID, orgID, nil)
	mustStatus(t, get, http.StatusOK, "get product")
	var product struct {
		SKU       string `json:"sku"`
		UOMSymbol string `json:"uom_symbol"`
		IsActive  bool   `json:"is_active"`
	}
	decodeData(t, get, &product)
	if product.SKU != "E2E-WIDGET" || product.UOMSymbol != "EA" || !product.IsActive {
		t.Fatalf("unexpected product: %s", get.body)
	}

	chResp := e.doJSON(t, http.MethodPost, "/admin/channels", orgID, map[string]any{"name": "E2E Storefront"})
	mustStatus(t, chResp, http.StatusOK, "create channel")
	var channel struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	}
	decodeData(t, chResp, &channel)
	if channel.Code == "" {
		t.Fatalf("channel code not derived: %s", chResp.body)
	}

	disable := e.doJSON(t, http.MethodPost, "/admin/channels/"+channel.ID+"/disable", orgID, nil)
	mustStatus(t, disable, http.StatusOK, "disable channel")

	missing := e.doJSON(t, http.MethodGet, "/admin/products/999999", orgID, nil)
	mustStatus(t, missing, http.StatusNotFound, "unknown product")
}

func TestE2E_OrderLifecycle(t *testing.T) {
	e := requireEnv(t)
	orgID := e.createOrg(t, "E2E Orders")
	defer e.cleanupPrefix(t, orgID, "E2E Orders")

	cgst := e.createTaxRate(t, orgID, "E2E CGST", 9)
	sgst := e.createTaxRate(t, orgID, "E2E SGST", 9)
	productID := e.createProduct(t, orgID, map[string]any{
		"sku":        "E2E-BOOK",
		"name":       "Ledger Book",
		"list_price": 100,
	})

	custResp := e.doJSON(t, http.MethodPost, "/admin/customers", orgID, map[string]any{"display_name": "E2E Buyer"})
	mustStatus(t, custResp, http.StatusOK, "create customer")
	var customer struct {
		ID string `json:"id"`
	}
	decodeData(t, custResp, &customer)

	orderResp := e.doJSON(t, http.MethodPost, "/admin/orders", orgID, map[string]any{"customer_id": customer.ID})
	mustStatus(t, orderResp, http.StatusOK, "create order")
	var order struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, orderResp, &order)
	if order.Status != "DRAFT" {
		t.Fatalf("expected DRAFT, got %s", orderResp.body)
	}

	type lineItem struct {
		ID                 string  `json:"id"`
		ItemOrder          int     `json:"item_order"`
		BaseAmount         string  `json:"base_amount"`
		DiscountAmount     string  `json:"discount_amount"`
		Subtotal           string  `json:"subtotal"`
		TotalTax           string  `json:"total_tax"`
		TotalAmount        string  `json:"total_amount"`
		DiscountPercentage *string `json:"discount_percentage"`
	}
	type orderView struct {
		ID     string     `json:"id"`
		Status string     `json:"status"`
		Items  []lineItem `json:"items"`
		Total  string     `json:"total"`
	}

	addResp := e.doJSON(t, http.MethodPost, "/admin/orders/"+order.ID+"/items", orgID, map[string]any{
		"product_id":     productID,
		"quantity":       2,
		"discount_type":  "PERCENTAGE",
		"discount_value": 10,
		"tax_rate_ids":   []string{cgst, sgst},
	})
	mustStatus(t, addResp, http.StatusOK, "add item")
	var afterAdd orderView
	decodeData(t, addResp, &afterAdd)
	if len(afterAdd.Items) != 1 {
		t.Fatalf("expected 1 item: %s", addResp.body)
	}
	first := afterAdd.Items[0]
	if first.BaseAmount != "200.00" || first.DiscountAmount != "20.00" || first.Subtotal != "180.00" ||
		first.TotalTax != "32.40" || first.TotalAmount != "212.40" {
		t.Fatalf("worked example mismatch: %s", addResp.body)
	}
	if first.DiscountPercentage == nil {
		t.Fatalf("discount_percentage missing for percentage discount: %s", addResp.body)
	}
	if first.ItemOrder != 1 {
		t.Fatalf("expected item_order 1: %s", addResp.body)
	}

	// Quantity and price default to 1 and the list price.
	addResp = e.doJSON(t, http.MethodPost, "/admin/orders/"+order.ID+"/items", orgID, map[string]any{
		"product_id": productID,
	})
	mustStatus(t, addResp, http.StatusOK, "add defaulted item")
	decodeData(t, addResp, &afterAdd)
	if len(afterAdd.Items) != 2 {
		t.Fatalf("expected 2 items: %s", addResp.body)
	}
	second := afterAdd.Items[1]
	if second.BaseAmount != "100.00" || second.ItemOrder != 2 {
		t.Fatalf("defaulted item mismatch: %s", addResp.body)
	}

	// Removing the first item must not renumber the survivor.
	delResp := e.doJSON(t, http.MethodDelete, "/admin/orders/"+order.ID+"/items/"+first.ID, orgID, nil)
	mustStatus(t, delResp, http.StatusOK, "remove item")
	var afterDelete orderView
	decodeData(t, delResp, &afterDelete)
	if len(afterDelete.Items) != 1 || afterDelete.Items[0].ItemOrder != 2 {
		t.Fatalf("expected surviving item to keep item_order 2: %s", delResp.body)
	}

	submitResp := e.doJSON(t, http.MethodPost, "/admin/orders/"+order.ID+"/submit", orgID, nil)
	mustStatus(t, submitResp, http.StatusOK, "submit order")
	var submitted orderView
	decodeData(t, submitResp, &submitted)
	if submitted.Status != "SUBMITTED" {
		t.Fatalf("expected SUBMITTED: %s", submitResp.body)
	}

	// The submit writes an outbox row; the relay is disabled in this suite.
	orgID64, err := strconv.ParseInt(orgID, 10, 64)
	if err != nil {
		t.Fatalf("parse org id: %v", err)
	}
	var pending int64
	if err := e.db.Model(&outbox.Event{}).
		Where("org_id = ? AND topic = ? AND published = ?", orgID64, outbox.OrderSubmittedTopic, false).
		Count(&pending).Error; err != nil {
		t.Fatalf("count outbox rows: %v", err)
	}
	if pending != 1 {
		t.Fatalf("expected 1 pending outbox event, got %d", pending)
	}

	lateAdd := e.doJSON(t, http.MethodPost, "/admin/orders/"+order.ID+"/items", orgID, map[string]any{
		"product_id": productID,
	})
	mustStatus(t, lateAdd, http.StatusConflict, "mutate submitted order")
}

func TestE2E_AdjustmentStockFlow(t *testing.T) {
	e := requireEnv(t)
	orgID := e.createOrg(t, "E2E Stock")
	defer e.cleanupPrefix(t, orgID, "E2E Stock")

	locResp := e.doJSON(t, http.MethodPost, "/admin/locations", orgID, map[string]any{
		"code": "E2E1",
		"name": "E2E Warehouse",
	})
	mustStatus(t, locResp, http.StatusOK, "create location")
	var location struct {
		ID string `json:"id"`
	}
	decodeData(t, locResp, &location)

	productID := e.createProduct(t, orgID, map[string]any{
		"sku":           "E2E-SER",
		"name":          "Serialized Part",
		"list_price":    10,
		"is_serialized": true,
	})

	reasonResp := e.doJSON(t, http.MethodPost, "/admin/adjustment-reasons", orgID, map[string]any{
		"name":       "E2E Cycle Count",
		"applies_to": []string{"ADD", "SUB"},
	})
	mustStatus(t, reasonResp, http.StatusOK, "create reason")
	var reason struct {
		ID string `json:"id"`
	}
	decodeData(t, reasonResp, &reason)

	// An empty draft accumulates every violation instead of stopping at one.
	invalid := e.doJSON(t, http.MethodPost, "/admin/inventory/adjustments", orgID, map[string]any{})
	mustStatus(t, invalid, http.StatusBadRequest, "empty draft")
	apiErr := decodeError(t, invalid)
	fields := map[string]bool{}
	for _, item := range apiErr.Errors {
		fields[item.Field] = true
	}
	for _, field := range []string{"product_id", "location_id", "adjustment_type", "reason_id"} {
		if !fields[field] {
			t.Fatalf("expected violation for %s: %s", field, invalid.body)
		}
	}

	applyResp := e.doJSON(t, http.MethodPost, "/admin/inventory/adjustments", orgID, map[string]any{
		"product_id":      productID,
		"location_id":     location.ID,
		"adjustment_type": "ADD",
		"quantity_change": "7",
		"reason_id":       reason.ID,
		"serial_number":   "SN-0001",
	})
	mustStatus(t, applyResp, http.StatusOK, "apply ADD")
	var applied struct {
		ReferenceCode string `json:"reference_code"`
		NewStockLevel int64  `json:"new_stock_level"`
	}
	decodeData(t, applyResp, &applied)
	if len(applied.ReferenceCode) != 26 {
		t.Fatalf("expected ULID reference code: %s", applyResp.body)
	}
	if applied.NewStockLevel != 7 {
		t.Fatalf("expected stock 7: %s", applyResp.body)
	}

	wrongSign := e.doJSON(t, http.MethodPost, "/admin/inventory/adjustments", orgID, map[string]any{
		"product_id":      productID,
		"location_id":     location.ID,
		"adjustment_type": "SUB",
		"quantity_change": "3",
		"reason_id":       reason.ID,
		"serial_number":   "SN-0002",
	})
	mustStatus(t, wrongSign, http.StatusBadRequest, "positive SUB")
	apiErr = decodeError(t, wrongSign)
	if len(apiErr.Errors) != 1 || apiErr.Errors[0].Field != "quantity_change" {
		t.Fatalf("expected quantity_change violation: %s", wrongSign.body)
	}

	subResp := e.doJSON(t, http.MethodPost, "/admin/inventory/adjustments", orgID, map[string]any{
		"product_id":      productID,
		"location_id":     location.ID,
		"adjustment_type": "SUB",
		"quantity_change": "-2",
		"reason_id":       reason.ID,
		"serial_number":   "SN-0001",
	})
	mustStatus(t, subResp, http.StatusOK, "apply SUB")
	decodeData(t, subResp, &applied)
	if applied.NewStockLevel != 5 {
		t.Fatalf("expected stock 5: %s", subResp.body)
	}

	summary := e.doJSON(t, http.MethodGet,
		"/admin/inventory/summary?product_id="+productID+"&location_id="+location.ID, orgID, nil)
	mustStatus(t, summary, http.StatusOK, "get summary")
	var summaryResp struct {
		StockQuantity     int64 `json:"stock_quantity"`
		AvailableQuantity int64 `json:"available_quantity"`
	}
	decodeData(t, summary, &summaryResp)
	if summaryResp.StockQuantity != 5 || summaryResp.AvailableQuantity != 5 {
		t.Fatalf("summary mismatch: %s", summary.body)
	}
}

func TestE2E_CustomerSeedUnion(t *testing.T) {
	e := requireEnv(t)
	orgID := e.createOrg(t, "E2E Seed")
	defer e.cleanupPrefix(t, orgID, "E2E Seed")

	seedResp := e.doJSON(t, http.MethodPost, "/admin/customers/seed", orgID, map[string]any{
		"kind": "contacts",
		"contacts": []map[string]any{
			{"display_name": "Seeded One", "email": "one@example.com"},
			{"display_name": "Seeded Two"},
		},
	})
	mustStatus(t, seedResp, http.StatusOK, "seed contacts")
	var seeded struct {
		CustomersCreated int `json:"customers_created"`
	}
	decodeData(t, seedResp, &seeded)
	if seeded.CustomersCreated != 2 {
		t.Fatalf("expected 2 customers created: %s", seedResp.body)
	}

	mixed := e.doJSON(t, http.MethodPost, "/admin/customers/seed", orgID, map[string]any{
		"kind":     "contacts",
		"contacts": []map[string]any{{"display_name": "Stray"}},
		"lists":    []map[string]any{{"name": "Stray List", "members": []map[string]any{}}},
	})
	mustStatus(t, mixed, http.StatusBadRequest, "mixed seed")
	apiErr := decodeError(t, mixed)
	if len(apiErr.Errors) != 1 || apiErr.Errors[0].Code != "mixed_seed" {
		t.Fatalf("expected mixed_seed: %s", mixed.body)
	}
}

func TestE2E_TaxProfileResolve(t *testing.T) {
	e := requireEnv(t)
	orgID := e.createOrg(t, "E2E Profiles")
	defer e.cleanupPrefix(t, orgID, "E2E Profiles")

	first := e.createTaxRate(t, orgID, "E2E Rate A", 9)
	second := e.createTaxRate(t, orgID, "E2E Rate B", 5)

	profileResp := e.doJSON(t, http.MethodPost, "/admin/tax-profiles", orgID, map[string]any{
		"name": "E2E GST",
		"rules": []map[string]any{
			{
				"criteria": "intra_state",
				"priority": 1,
				"outcomes": []map[string]any{
					{"tax_rate_id": first},
					{"tax_rate_id": second},
				},
			},
			{
				"criteria": "fallback",
				"priority": 2,
				"outcomes": []map[string]any{
					{"tax_rate_id": second},
				},
			},
		},
	})
	mustStatus(t, profileResp, http.StatusOK, "create profile")
	var profile struct {
		ID string `json:"id"`
	}
	decodeData(t, profileResp, &profile)

	resolve := e.doJSON(t, http.MethodGet, "/admin/tax-profiles/"+profile.ID+"/resolve", orgID, nil)
	mustStatus(t, resolve, http.StatusOK, "resolve profile")
	var resolved struct {
		TaxRateIDs []string `json:"tax_rate_ids"`
	}
	decodeData(t, resolve, &resolved)
	if len(resolved.TaxRateIDs) != 2 || resolved.TaxRateIDs[0] != first || resolved.TaxRateIDs[1] != second {
		t.Fatalf("expected distinct ordered rate ids: %s", resolve.body)
	}
}
