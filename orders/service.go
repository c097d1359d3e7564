package orders

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"agni/models"
	"agni/pending"
	"agni/upi"
	"agni/utils"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
)

// Service owns the order and payment lifecycle: creation, the pending
// payment cache, the verify/confirm endpoints and the review/complaint
// field updates.
type Service struct {
	store       Store
	cache       *pending.Cache
	merchantVPA string
	validate    *validator.Validate
}

func NewService(store Store, cache *pending.Cache, merchantVPA string) *Service {
	return &Service{
		store:       store,
		cache:       cache,
		merchantVPA: merchantVPA,
		validate:    validator.New(),
	}
}

type createOrderRequest struct {
	OrderID        string                `json:"orderId"`
	Amount         float64               `json:"amount" validate:"required,gt=0"`
	BookingDetails models.BookingDetails `json:"bookingDetails" validate:"required"`
	AddressData    models.AddressData    `json:"addressData" validate:"required"`
	PaymentMethod  string                `json:"paymentMethod" validate:"required,oneof=UPI COD"`
	CustomerUpiID  string                `json:"customerUpiId" validate:"required_if=PaymentMethod UPI"`
	MerchantUpiID  string                `json:"merchantUpiId"`
	Status         string                `json:"status" validate:"omitempty,oneof=pending confirmed"`
}

// POST /api/orders
func (s *Service) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.store == nil {
		utils.RespondWithError(w, http.StatusInternalServerError, ErrStorageUnavailable.Error())
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, ErrMissingFields.Error())
		return
	}
	if req.PaymentMethod == models.MethodUPI {
		if err := upi.ValidateID(req.CustomerUpiID); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		orderID = utils.NewOrderID()
	}
	merchantVPA := req.MerchantUpiID
	if merchantVPA == "" {
		merchantVPA = s.merchantVPA
	}

	order := models.Order{
		OrderID:        orderID,
		Amount:         req.Amount,
		BookingDetails: req.BookingDetails,
		AddressData:    req.AddressData,
		PaymentMethod:  req.PaymentMethod,
		CustomerUpiID:  req.CustomerUpiID,
		MerchantUpiID:  merchantVPA,
		CreatedAt:      time.Now(),
	}

	if req.PaymentMethod == models.MethodCOD {
		order.Status = models.StatusConfirmed
		order.PaymentConfirmed = true
	} else {
		order.Status = models.StatusPending
		if req.Status != "" {
			order.Status = req.Status
		}
		order.PaymentConfirmed = false
	}

	if err := s.store.Insert(r.Context(), order); err != nil {
		if errors.Is(err, ErrDuplicateOrderID) {
			utils.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		log.Printf("CreateOrder: insert failed for %s: %v", orderID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, ErrPersistenceFailure.Error())
		return
	}

	resp := utils.M{"success": true, "orderId": orderID}

	if req.PaymentMethod == models.MethodUPI {
		s.cache.Put(order)

		links := upi.PaymentLinks(order.Amount, orderID, merchantVPA)
		resp["payment"] = links
		if qr, err := upi.QRPNG(links.DeepLink); err == nil {
			resp["qr"] = qr
		} else {
			log.Printf("CreateOrder: QR generation failed for %s: %v", orderID, err)
		}
	}

	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// GET /api/orders
func (s *Service) ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.store == nil {
		utils.RespondWithError(w, http.StatusInternalServerError, ErrStorageUnavailable.Error())
		return
	}

	all, err := s.store.All(r.Context())
	if err != nil {
		log.Printf("ListOrders: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	if all == nil {
		all = []models.Order{}
	}
	utils.RespondWithJSON(w, http.StatusOK, all)
}

// POST /api/payments/verify
//
// Cache-only lookup: the poller hits this every few seconds and must not
// touch the durable store. The reported status is whatever the webhook has
// written into the cached entry; until it fires, that stays "pending".
func (s *Service) VerifyPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, ErrMissingFields.Error())
		return
	}

	entry, ok := s.cache.Get(req.OrderID)
	if !ok {
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"status": "not_found"})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": entry.Status})
}

// POST /api/payments/confirm
//
// Webhook target for the payment gateway. Updates the cached entry and the
// durable record together so GET /orders reflects a completed UPI payment.
func (s *Service) ConfirmPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, ErrMissingFields.Error())
		return
	}
	if req.Status != models.StatusCompleted && req.Status != models.StatusFailed {
		utils.RespondWithError(w, http.StatusBadRequest, "status must be completed or failed")
		return
	}

	entry, ok := s.cache.Confirm(req.OrderID, req.Status)
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, ErrOrderNotFound.Error())
		return
	}

	if err := s.store.SetPaymentStatus(r.Context(), req.OrderID, entry.Status, entry.PaymentConfirmed); err != nil {
		log.Printf("ConfirmPayment: durable update failed for %s: %v", req.OrderID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, ErrPersistenceFailure.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "status": entry.Status})
}

// POST /api/reviews
func (s *Service) SubmitReview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		OrderID string `json:"orderId"`
		Rating  int    `json:"rating"`
		Review  string `json:"review"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.OrderID == "" || req.Review == "" || req.Rating == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, ErrMissingFields.Error())
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	review := models.Review{Rating: req.Rating, Review: req.Review, CreatedAt: time.Now()}
	if err := s.store.SetReview(r.Context(), req.OrderID, review); err != nil {
		s.respondFieldUpdateError(w, "SubmitReview", req.OrderID, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true})
}

// POST /api/complaints
func (s *Service) SubmitComplaint(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		OrderID   string `json:"orderId"`
		Complaint string `json:"complaint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.OrderID == "" || strings.TrimSpace(req.Complaint) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, ErrMissingFields.Error())
		return
	}

	complaint := models.Complaint{
		Text:      req.Complaint,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.store.SetComplaint(r.Context(), req.OrderID, complaint); err != nil {
		s.respondFieldUpdateError(w, "SubmitComplaint", req.OrderID, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true})
}

func (s *Service) respondFieldUpdateError(w http.ResponseWriter, op, orderID string, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		utils.RespondWithError(w, http.StatusNotFound, ErrOrderNotFound.Error())
	case errors.Is(err, ErrDuplicateSubmission):
		utils.RespondWithError(w, http.StatusBadRequest, ErrDuplicateSubmission.Error())
	default:
		log.Printf("%s: store error for %s: %v", op, orderID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
