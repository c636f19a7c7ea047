package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	inventorydomain "github.com/shopkit/tradepost/internal/inventory/domain"
	orderdomain "github.com/shopkit/tradepost/internal/order/domain"
	"github.com/shopkit/tradepost/internal/orgcontext"
	taxratedomain "github.com/shopkit/tradepost/internal/taxrate/domain"
)

type fakeTaxRateService struct {
	createErr error
	getErr    error
	listOrgs  []string
}

func (f *fakeTaxRateService) Create(ctx context.Context, req taxratedomain.CreateRequest) (*taxratedomain.Response, error) {
	_ = ctx
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &taxratedomain.Response{ID: "1", Name: req.Name}, nil
}

func (f *fakeTaxRateService) List(ctx context.Context, req taxratedomain.ListRequest) ([]taxratedomain.Response, error) {
	_ = req
	if orgID, ok := orgcontext.OrgIDFromContext(ctx); ok {
		f.listOrgs = append(f.listOrgs, orgID.String())
	}
	return nil, nil
}

func (f *fakeTaxRateService) Get(ctx context.Context, id string) (*taxratedomain.Response, error) {
	_ = ctx
	_ = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &taxratedomain.Response{ID: id}, nil
}

func (f *fakeTaxRateService) Update(ctx context.Context, id string, req taxratedomain.UpdateRequest) (*taxratedomain.Response, error) {
	panic("unimplemented")
}

func (f *fakeTaxRateService) Disable(ctx context.Context, id string) error {
	panic("unimplemented")
}

type fakeOrderService struct {
	submitErr error
}

func (f *fakeOrderService) Create(ctx context.Context, req orderdomain.CreateRequest) (*orderdomain.Response, error) {
	panic("unimplemented")
}

func (f *fakeOrderService) List(ctx context.Context, req orderdomain.ListRequest) ([]orderdomain.Response, error) {
	panic("unimplemented")
}

func (f *fakeOrderService) Get(ctx context.Context, id string) (*orderdomain.Response, error) {
	panic("unimplemented")
}

func (f *fakeOrderService) AddItem(ctx context.Context, orderID string, input orderdomain.LineItemInput) (*orderdomain.Response, error) {
	panic("unimplemented")
}

func (f *fakeOrderService) ReplaceItem(ctx context.Context, orderID, itemID string, input orderdomain.LineItemInput) (*orderdomain.Response, error) {
	panic("unimplemented")
}

func (f *fakeOrderService) RemoveItem(ctx context.Context, orderID, itemID string) (*orderdomain.Response, error) {
	panic("unimplemented")
}

func (f *fakeOrderService) Preview(ctx context.Context, input orderdomain.LineItemInput) (*orderdomain.LineItemResponse, error) {
	panic("unimplemented")
}

func (f *fakeOrderService) Submit(ctx context.Context, orderID string) (*orderdomain.Response, error) {
	_ = ctx
	_ = orderID
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &orderdomain.Response{ID: orderID, Status: "SUBMITTED"}, nil
}

func (f *fakeOrderService) Cancel(ctx context.Context, orderID string) error {
	panic("unimplemented")
}

type fakeInventoryService struct {
	fieldErrs inventorydomain.FieldErrors
	applied   *inventorydomain.AdjustmentResponse
}

func (f *fakeInventoryService) GetSummary(ctx context.Context, productID, locationID string) (*inventorydomain.SummaryResponse, error) {
	_ = ctx
	return &inventorydomain.SummaryResponse{ProductID: productID, LocationID: locationID}, nil
}

func (f *fakeInventoryService) ListAdjustments(ctx context.Context, req inventorydomain.ListAdjustmentsRequest) ([]inventorydomain.AdjustmentResponse, error) {
	panic("unimplemented")
}

func (f *fakeInventoryService) Apply(ctx context.Context, draft inventorydomain.AdjustmentDraft) (*inventorydomain.AdjustmentResponse, inventorydomain.FieldErrors, error) {
	_ = ctx
	_ = draft
	if len(f.fieldErrs) > 0 {
		return nil, f.fieldErrs, nil
	}
	return f.applied, nil, nil
}

func newTestRouter(srv *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	srv.engine = router
	srv.registerOrganizationRoutes()
	srv.registerAdminRoutes()
	return router
}

type errorEnvelope struct {
	Error struct {
		Type    string            `json:"type"`
		Message string            `json:"message"`
		Errors  []ValidationError `json:"errors"`
	} `json:"error"`
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var envelope errorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (body %s)", err, resp.Body.String())
	}
	return envelope
}

func TestOrgContextMissingHeaderRejected(t *testing.T) {
	rates := &fakeTaxRateService{}
	router := newTestRouter(&Server{taxRateSvc: rates})

	req := httptest.NewRequest(http.MethodGet, "/admin/tax-rates", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	envelope := decodeError(t, resp)
	if envelope.Error.Type != "validation_error" {
		t.Fatalf("expected validation_error, got %q", envelope.Error.Type)
	}
	if len(envelope.Error.Errors) != 1 || envelope.Error.Errors[0].Field != "org" {
		t.Fatalf("expected single org error, got %+v", envelope.Error.Errors)
	}
	if len(rates.listOrgs) != 0 {
		t.Fatal("expected service not to be reached without an org header")
	}
}

func TestOrgContextInvalidHeaderRejected(t *testing.T) {
	router := newTestRouter(&Server{taxRateSvc: &fakeTaxRateService{}})

	req := httptest.NewRequest(http.MethodGet, "/admin/tax-rates", nil)
	req.Header.Set(HeaderOrg, "not-a-snowflake")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	envelope := decodeError(t, resp)
	if envelope.Error.Errors[0].Code != "invalid_org" {
		t.Fatalf("expected invalid_org, got %q", envelope.Error.Errors[0].Code)
	}
}

func TestOrgContextPropagatesToServices(t *testing.T) {
	rates := &fakeTaxRateService{}
	router := newTestRouter(&Server{taxRateSvc: rates})

	req := httptest.NewRequest(http.MethodGet, "/admin/tax-rates", nil)
	req.Header.Set(HeaderOrg, "7205759403792793600")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body %s)", resp.Code, resp.Body.String())
	}
	if len(rates.listOrgs) != 1 || rates.listOrgs[0] != "7205759403792793600" {
		t.Fatalf("expected org to reach the service, got %v", rates.listOrgs)
	}
}

func TestNotFoundSentinelMapsTo404(t *testing.T) {
	rates := &fakeTaxRateService{getErr: taxratedomain.ErrTaxRateNotFound}
	router := newTestRouter(&Server{taxRateSvc: rates})

	req := httptest.NewRequest(http.MethodGet, "/admin/tax-rates/42", nil)
	req.Header.Set(HeaderOrg, "42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	if envelope := decodeError(t, resp); envelope.Error.Type != "not_found" {
		t.Fatalf("expected not_found, got %q", envelope.Error.Type)
	}
}

func TestDuplicateNameMapsToConflict(t *testing.T) {
	rates := &fakeTaxRateService{createErr: taxratedomain.ErrDuplicateName}
	router := newTestRouter(&Server{taxRateSvc: rates})

	body := bytes.NewBufferString(`{"name":"GST 18","tax_type":"GST","rate":"18"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/tax-rates", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderOrg, "42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
	if envelope := decodeError(t, resp); envelope.Error.Type != "conflict" {
		t.Fatalf("expected conflict, got %q", envelope.Error.Type)
	}
}

func TestValidationSentinelCarriesFieldAndCode(t *testing.T) {
	rates := &fakeTaxRateService{createErr: taxratedomain.ErrInvalidRate}
	router := newTestRouter(&Server{taxRateSvc: rates})

	body := bytes.NewBufferString(`{"name":"GST 18","tax_type":"GST","rate":"-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/tax-rates", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderOrg, "42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	envelope := decodeError(t, resp)
	if len(envelope.Error.Errors) != 1 {
		t.Fatalf("expected one error entry, got %+v", envelope.Error.Errors)
	}
	entry := envelope.Error.Errors[0]
	if entry.Field != "rate" || entry.Code != "invalid_rate" {
		t.Fatalf("expected rate/invalid_rate, got %q/%q", entry.Field, entry.Code)
	}
}

func TestEmptyOrderSubmitMapsToValidation(t *testing.T) {
	orders := &fakeOrderService{submitErr: orderdomain.ErrEmptyOrder}
	router := newTestRouter(&Server{orderSvc: orders})

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/9/submit", nil)
	req.Header.Set(HeaderOrg, "42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	envelope := decodeError(t, resp)
	entry := envelope.Error.Errors[0]
	if entry.Field != "items" || entry.Code != "empty_order" {
		t.Fatalf("expected items/empty_order, got %q/%q", entry.Field, entry.Code)
	}
}

func TestSubmittedOrderMutationMapsToConflict(t *testing.T) {
	orders := &fakeOrderService{submitErr: orderdomain.ErrOrderNotEditable}
	router := newTestRouter(&Server{orderSvc: orders})

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/9/submit", nil)
	req.Header.Set(HeaderOrg, "42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestAdjustmentFieldErrorsFlattenedSorted(t *testing.T) {
	inv := &fakeInventoryService{fieldErrs: inventorydomain.FieldErrors{
		"quantity_change": "quantity change must be an integer",
		"product_id":      "product is required",
		"adjustment_type": "adjustment type is required",
	}}
	router := newTestRouter(&Server{inventorySvc: inv})

	body := bytes.NewBufferString(`{}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/inventory/adjustments", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderOrg, "42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	envelope := decodeError(t, resp)
	if len(envelope.Error.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %+v", envelope.Error.Errors)
	}
	wantFields := []string{"adjustment_type", "product_id", "quantity_change"}
	for i, want := range wantFields {
		if envelope.Error.Errors[i].Field != want {
			t.Fatalf("expected field %q at %d, got %q", want, i, envelope.Error.Errors[i].Field)
		}
	}
	if envelope.Error.Errors[1].Message != "product is required" {
		t.Fatalf("expected validator message to pass through, got %q", envelope.Error.Errors[1].Message)
	}
}

func TestAdjustmentAppliesWithoutLimiter(t *testing.T) {
	inv := &fakeInventoryService{applied: &inventorydomain.AdjustmentResponse{
		ID:            "77",
		ReferenceCode: "01J0000000000000000000TEST",
		NewStockLevel: 15,
	}}
	router := newTestRouter(&Server{inventorySvc: inv})

	body := bytes.NewBufferString(`{"product_id":"1","location_id":"2","adjustment_type":"ADD","quantity_change":"5","reason_id":"3"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/inventory/adjustments", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderOrg, "42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body %s)", resp.Code, resp.Body.String())
	}
	var payload struct {
		Data inventorydomain.AdjustmentResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.ReferenceCode != "01J0000000000000000000TEST" {
		t.Fatalf("expected reference code in response, got %+v", payload.Data)
	}
}
