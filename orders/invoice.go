package orders

import (
	"bytes"
	"fmt"
	"net/http"

	"agni/models"
	"agni/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
)

// GET /api/orders/:orderId/invoice
func (s *Service) PrintInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("orderId")
	if orderID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, ErrMissingFields.Error())
		return
	}

	order, err := s.store.FindByID(r.Context(), orderID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, ErrOrderNotFound.Error())
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Gas Booking Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order ID: %s", order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", order.CreatedAt.Format("02 Jan 2006 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("%s, %s x%d", order.BookingDetails.Brand,
		order.BookingDetails.Weight, order.BookingDetails.Quantity))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Amount: INR %.2f", order.Amount))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Payment: %s (%s)", order.PaymentMethod, paymentState(order)))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, "Deliver To")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, order.AddressData.FullName)
	pdf.Ln(8)
	pdf.Cell(0, 10, order.AddressData.StreetAddress)
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("%s, %s - %s", order.AddressData.City,
		order.AddressData.State, order.AddressData.Pincode))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("%s, %s", order.AddressData.DeliveryDate, order.AddressData.TimeSlot))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func paymentState(order models.Order) string {
	if order.PaymentConfirmed {
		return "paid"
	}
	return order.Status
}
