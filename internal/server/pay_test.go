package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/fahimshariar28/eidi/internal/invoice/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeInvoiceService struct {
	invoices map[string]invoicedomain.Invoice

	markPaidErr   error
	markPaidCalls int
	lastTxID      string
}

func newFakeInvoiceService(invoices ...invoicedomain.Invoice) *fakeInvoiceService {
	svc := &fakeInvoiceService{invoices: make(map[string]invoicedomain.Invoice)}
	for _, inv := range invoices {
		svc.invoices[inv.ID.String()] = inv
	}
	return svc
}

func (f *fakeInvoiceService) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	_ = ctx
	_ = req
	return invoicedomain.Invoice{}, errors.New("not implemented")
}

func (f *fakeInvoiceService) GetByID(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	_ = ctx
	inv, ok := f.invoices[id]
	if !ok {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}
	return inv, nil
}

func (f *fakeInvoiceService) MarkPaid(ctx context.Context, id string, transactionID string) (invoicedomain.Invoice, error) {
	_ = ctx
	f.markPaidCalls++
	f.lastTxID = transactionID
	if f.markPaidErr != nil {
		return invoicedomain.Invoice{}, f.markPaidErr
	}
	inv, ok := f.invoices[id]
	if !ok {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}
	now := time.Now()
	inv.Status = invoicedomain.InvoiceStatusPaid
	inv.TransactionID = &transactionID
	inv.PaidAt = &now
	f.invoices[id] = inv
	return inv, nil
}

func (f *fakeInvoiceService) ListByCreator(ctx context.Context, creatorID snowflake.ID) ([]invoicedomain.Invoice, error) {
	_ = ctx
	_ = creatorID
	return nil, nil
}

func (f *fakeInvoiceService) Summary(ctx context.Context, creatorID snowflake.ID) (invoicedomain.Summary, error) {
	_ = ctx
	_ = creatorID
	return invoicedomain.Summary{}, nil
}

func newPayTestRouter(svc invoicedomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	srv := &Server{
		log:             zap.NewNop(),
		invoiceSvc:      svc,
		payLimiter:      newRateLimiter(1000, time.Minute),
		markPaidLimiter: newRateLimiter(1000, time.Minute),
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/invoice/:id", srv.GetPublicInvoice)
	router.POST("/api/invoice/:id/paid", srv.MarkInvoicePaid)
	return router
}

func pendingTestInvoice() invoicedomain.Invoice {
	return invoicedomain.Invoice{
		ID:          snowflake.ID(1001),
		CreatorID:   snowflake.ID(7),
		Amount:      500,
		TargetName:  "Rafi",
		Message:     "Eid Mubarak",
		BkashNumber: "01700000000",
		Status:      invoicedomain.InvoiceStatusPending,
	}
}

func TestGetPublicInvoice(t *testing.T) {
	router := newPayTestRouter(newFakeInvoiceService(pendingTestInvoice()))

	req := httptest.NewRequest(http.MethodGet, "/api/invoice/1001", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["id"] != "1001" || body["targetName"] != "Rafi" || body["bkashNumber"] != "01700000000" {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["status"] != "PENDING" {
		t.Fatalf("expected status PENDING, got %v", body["status"])
	}
	if _, present := body["transactionId"]; present {
		t.Fatalf("pending invoice must not expose transactionId: %v", body)
	}
}

func TestGetPublicInvoiceNotFound(t *testing.T) {
	router := newPayTestRouter(newFakeInvoiceService())

	req := httptest.NewRequest(http.MethodGet, "/api/invoice/9999", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestMarkInvoicePaid(t *testing.T) {
	svc := newFakeInvoiceService(pendingTestInvoice())
	router := newPayTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/invoice/1001/paid", bytes.NewBufferString(`{"txId":"ABC123XYZ0"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["success"] != true {
		t.Fatalf("expected success true, got %v", body)
	}
	if svc.lastTxID != "ABC123XYZ0" {
		t.Fatalf("expected transaction id to reach the service, got %q", svc.lastTxID)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/api/invoice/1001", nil)
	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, getReq)

	var view map[string]any
	if err := json.Unmarshal(getResp.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view["status"] != "PAID" || view["transactionId"] != "ABC123XYZ0" {
		t.Fatalf("expected paid view with transaction id, got %v", view)
	}
}

func TestMarkInvoicePaidNotFound(t *testing.T) {
	router := newPayTestRouter(newFakeInvoiceService())

	req := httptest.NewRequest(http.MethodPost, "/api/invoice/9999/paid", bytes.NewBufferString(`{"txId":"ABC123XYZ0"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestMarkInvoicePaidStoreFailure(t *testing.T) {
	svc := newFakeInvoiceService(pendingTestInvoice())
	svc.markPaidErr = errors.New("write timeout")
	router := newPayTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/invoice/1001/paid", bytes.NewBufferString(`{"txId":"ABC123XYZ0"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "failed to update invoice" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestMarkInvoicePaidRateLimited(t *testing.T) {
	svc := newFakeInvoiceService(pendingTestInvoice())
	gin.SetMode(gin.TestMode)
	srv := &Server{
		log:             zap.NewNop(),
		invoiceSvc:      svc,
		payLimiter:      newRateLimiter(1000, time.Minute),
		markPaidLimiter: newRateLimiter(1, time.Minute),
	}
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/api/invoice/:id/paid", srv.MarkInvoicePaid)

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/api/invoice/1001/paid", bytes.NewBufferString(`{"txId":"ABC123XYZ0"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != want {
			t.Fatalf("request %d: expected status %d, got %d", i, want, resp.Code)
		}
	}
}
