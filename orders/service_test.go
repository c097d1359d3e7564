package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"agni/models"
	"agni/pending"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- In-memory fake store ---

type fakeStore struct {
	mu     sync.Mutex
	orders map[string]models.Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: make(map[string]models.Order)}
}

func (f *fakeStore) Insert(_ context.Context, order models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.orders[order.OrderID]; exists {
		return ErrDuplicateOrderID
	}
	f.orders[order.OrderID] = order
	return nil
}

func (f *fakeStore) All(_ context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]models.Order, 0, len(f.orders))
	for _, o := range f.orders {
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

func (f *fakeStore) FindByID(_ context.Context, orderID string) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeStore) SetPaymentStatus(_ context.Context, orderID, status string, confirmed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	o.PaymentConfirmed = confirmed
	f.orders[orderID] = o
	return nil
}

func (f *fakeStore) SetReview(_ context.Context, orderID string, review models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	if o.Review != nil {
		return ErrDuplicateSubmission
	}
	o.Review = &review
	f.orders[orderID] = o
	return nil
}

func (f *fakeStore) SetComplaint(_ context.Context, orderID string, complaint models.Complaint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	if o.Complaint != nil {
		return ErrDuplicateSubmission
	}
	o.Complaint = &complaint
	f.orders[orderID] = o
	return nil
}

// --- Helpers ---

func newTestService() (*Service, *fakeStore, *pending.Cache) {
	store := newFakeStore()
	cache := pending.NewCache(time.Hour, time.Hour)
	return NewService(store, cache, "agnigas@okaxis"), store, cache
}

func testRouter(svc *Service) *httprouter.Router {
	router := httprouter.New()
	router.POST("/api/orders", svc.CreateOrder)
	router.GET("/api/orders", svc.ListOrders)
	router.POST("/api/payments/verify", svc.VerifyPayment)
	router.POST("/api/payments/confirm", svc.ConfirmPayment)
	router.POST("/api/reviews", svc.SubmitReview)
	router.POST("/api/complaints", svc.SubmitComplaint)
	router.GET("/api/orders/:orderId/invoice", svc.PrintInvoice)
	return router
}

func doJSON(t *testing.T, router *httprouter.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func orderBody(orderID, method string) map[string]any {
	body := map[string]any{
		"orderId": orderID,
		"amount":  1000,
		"bookingDetails": map[string]any{
			"brand":      "HP GAS",
			"weight":     "5kg",
			"quantity":   2,
			"totalPrice": 1000,
		},
		"addressData": map[string]any{
			"fullName":      "Asha Verma",
			"phoneNumber":   "9876543210",
			"streetAddress": "14 MG Road",
			"city":          "Pune",
			"state":         "Maharashtra",
			"pincode":       "411001",
			"deliveryDate":  "2026-09-02",
			"timeSlot":      "9:00 AM - 11:00 AM",
		},
		"paymentMethod": method,
	}
	if method == models.MethodUPI {
		body["customerUpiId"] = "asha@upi"
	}
	return body
}

// --- Tests ---

func TestCreateOrderCOD(t *testing.T) {
	svc, store, cache := newTestService()
	router := testRouter(svc)

	rec := doJSON(t, router, http.MethodPost, "/api/orders", orderBody("ORD100", models.MethodCOD))
	require.Equal(t, http.StatusCreated, rec.Code)

	saved, err := store.FindByID(context.Background(), "ORD100")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, saved.Status)
	assert.True(t, saved.PaymentConfirmed)

	// COD orders never enter the pending cache.
	assert.Equal(t, 0, cache.Len())
}

func TestCreateOrderUPI(t *testing.T) {
	svc, store, cache := newTestService()
	router := testRouter(svc)

	rec := doJSON(t, router, http.MethodPost, "/api/orders", orderBody("ORD101", models.MethodUPI))
	require.Equal(t, http.StatusCreated, rec.Code)

	saved, err := store.FindByID(context.Background(), "ORD101")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, saved.Status)
	assert.False(t, saved.PaymentConfirmed)

	cached, ok := cache.Get("ORD101")
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, cached.Status)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	payment, ok := resp["payment"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, payment["deepLink"], "upi://collect?")
	assert.NotEmpty(t, resp["qr"])
}

func TestCreateOrderInvalidUpiID(t *testing.T) {
	svc, _, cache := newTestService()
	router := testRouter(svc)

	body := orderBody("ORD102", models.MethodUPI)
	body["customerUpiId"] = "asha@u"
	rec := doJSON(t, router, http.MethodPost, "/api/orders", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, cache.Len())
}

func TestCreateOrderMissingFields(t *testing.T) {
	svc, _, _ := newTestService()
	router := testRouter(svc)

	body := orderBody("ORD103", models.MethodCOD)
	delete(body, "addressData")
	rec := doJSON(t, router, http.MethodPost, "/api/orders", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderDuplicateID(t *testing.T) {
	svc, _, _ := newTestService()
	router := testRouter(svc)

	require.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/api/orders", orderBody("ORD104", models.MethodCOD)).Code)
	assert.Equal(t, http.StatusConflict,
		doJSON(t, router, http.MethodPost, "/api/orders", orderBody("ORD104", models.MethodCOD)).Code)
}

func TestCreateOrderStorageUnavailable(t *testing.T) {
	svc := NewService(nil, pending.NewCache(time.Hour, time.Hour), "agnigas@okaxis")
	router := testRouter(svc)

	rec := doJSON(t, router, http.MethodPost, "/api/orders", orderBody("ORD105", models.MethodCOD))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListOrdersNewestFirst(t *testing.T) {
	svc, store, _ := newTestService()
	router := testRouter(svc)

	base := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Insert(context.Background(), models.Order{
			OrderID:   fmt.Sprintf("ORD%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	rec := doJSON(t, router, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "ORD2", got[0].OrderID)
	assert.Equal(t, "ORD0", got[2].OrderID)
}

func TestVerifyPaymentStates(t *testing.T) {
	svc, _, cache := newTestService()
	router := testRouter(svc)

	rec := doJSON(t, router, http.MethodPost, "/api/payments/verify", map[string]string{"orderId": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")

	cache.Put(models.Order{OrderID: "ORD200", Status: models.StatusPending, CreatedAt: time.Now()})
	rec = doJSON(t, router, http.MethodPost, "/api/payments/verify", map[string]string{"orderId": "ORD200"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), models.StatusPending)
}

func TestConfirmPaymentSyncsCacheAndStore(t *testing.T) {
	svc, store, cache := newTestService()
	router := testRouter(svc)

	require.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/api/orders", orderBody("ORD201", models.MethodUPI)).Code)

	rec := doJSON(t, router, http.MethodPost, "/api/payments/confirm",
		map[string]string{"orderId": "ORD201", "status": models.StatusCompleted})
	require.Equal(t, http.StatusOK, rec.Code)

	// Poller sees completion through the cache.
	rec = doJSON(t, router, http.MethodPost, "/api/payments/verify", map[string]string{"orderId": "ORD201"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), models.StatusCompleted)

	// Durable record matches.
	saved, err := store.FindByID(context.Background(), "ORD201")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, saved.Status)
	assert.True(t, saved.PaymentConfirmed)

	cached, ok := cache.Get("ORD201")
	require.True(t, ok)
	assert.True(t, cached.PaymentConfirmed)
}

func TestConfirmPaymentUnknownOrder(t *testing.T) {
	svc, _, _ := newTestService()
	router := testRouter(svc)

	rec := doJSON(t, router, http.MethodPost, "/api/payments/confirm",
		map[string]string{"orderId": "ghost", "status": models.StatusCompleted})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirmPaymentRejectsBadStatus(t *testing.T) {
	svc, _, _ := newTestService()
	router := testRouter(svc)

	rec := doJSON(t, router, http.MethodPost, "/api/payments/confirm",
		map[string]string{"orderId": "ORD1", "status": "refunded"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitReviewGuards(t *testing.T) {
	svc, store, _ := newTestService()
	router := testRouter(svc)

	require.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/api/orders", orderBody("ORD300", models.MethodCOD)).Code)

	review := map[string]any{"orderId": "ORD300", "rating": 4, "review": "Quick delivery"}
	assert.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/api/reviews", review).Code)

	// Second submission fails and leaves the original untouched.
	second := map[string]any{"orderId": "ORD300", "rating": 1, "review": "changed my mind"}
	assert.Equal(t, http.StatusBadRequest,
		doJSON(t, router, http.MethodPost, "/api/reviews", second).Code)

	saved, err := store.FindByID(context.Background(), "ORD300")
	require.NoError(t, err)
	require.NotNil(t, saved.Review)
	assert.Equal(t, 4, saved.Review.Rating)
	assert.Equal(t, "Quick delivery", saved.Review.Review)

	// Unknown order and out-of-range rating.
	assert.Equal(t, http.StatusNotFound,
		doJSON(t, router, http.MethodPost, "/api/reviews",
			map[string]any{"orderId": "ghost", "rating": 3, "review": "x"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		doJSON(t, router, http.MethodPost, "/api/reviews",
			map[string]any{"orderId": "ORD300", "rating": 6, "review": "x"}).Code)
}

func TestSubmitComplaintGuards(t *testing.T) {
	svc, store, _ := newTestService()
	router := testRouter(svc)

	require.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/api/orders", orderBody("ORD301", models.MethodCOD)).Code)

	complaint := map[string]any{"orderId": "ORD301", "complaint": "Cylinder arrived dented"}
	assert.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/api/complaints", complaint).Code)
	assert.Equal(t, http.StatusBadRequest,
		doJSON(t, router, http.MethodPost, "/api/complaints", complaint).Code)

	saved, err := store.FindByID(context.Background(), "ORD301")
	require.NoError(t, err)
	require.NotNil(t, saved.Complaint)
	assert.Equal(t, models.StatusPending, saved.Complaint.Status)
	assert.False(t, saved.Complaint.CreatedAt.IsZero())

	assert.Equal(t, http.StatusBadRequest,
		doJSON(t, router, http.MethodPost, "/api/complaints",
			map[string]any{"orderId": "ORD301", "complaint": "   "}).Code)
}

func TestEndToEndCODThenUPI(t *testing.T) {
	svc, _, _ := newTestService()
	router := testRouter(svc)

	// COD order shows up confirmed in the listing.
	require.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/api/orders", orderBody("ORDCOD", models.MethodCOD)).Code)

	rec := doJSON(t, router, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, models.StatusConfirmed, listed[0].Status)
	assert.Equal(t, "HP GAS", listed[0].BookingDetails.Brand)

	// UPI order: confirm via webhook, then verify reports completed.
	require.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/api/orders", orderBody("ORDUPI", models.MethodUPI)).Code)
	require.Equal(t, http.StatusOK,
		doJSON(t, router, http.MethodPost, "/api/payments/confirm",
			map[string]string{"orderId": "ORDUPI", "status": models.StatusCompleted}).Code)

	rec = doJSON(t, router, http.MethodPost, "/api/payments/verify", map[string]string{"orderId": "ORDUPI"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), models.StatusCompleted)

	rec = doJSON(t, router, http.MethodGet, "/api/orders", nil)
	var after []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	require.Len(t, after, 2)
	for _, o := range after {
		if o.OrderID == "ORDUPI" {
			assert.Equal(t, models.StatusCompleted, o.Status)
			assert.True(t, o.PaymentConfirmed)
		}
	}
}

func TestPrintInvoice(t *testing.T) {
	svc, _, _ := newTestService()
	router := testRouter(svc)

	require.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/api/orders", orderBody("ORD400", models.MethodCOD)).Code)

	rec := doJSON(t, router, http.MethodGet, "/api/orders/ORD400/invoice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = doJSON(t, router, http.MethodGet, "/api/orders/ghost/invoice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
