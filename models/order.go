package models

import (
	"time"
)

// Payment methods accepted at checkout.
const (
	MethodUPI = "UPI"
	MethodCOD = "COD"
)

// Order statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// BookingDetails captures the cylinder selection made on the booking page.
type BookingDetails struct {
	Brand      string  `bson:"brand" json:"brand" validate:"required"`
	Weight     string  `bson:"weight" json:"weight" validate:"required"`
	Quantity   int     `bson:"quantity" json:"quantity" validate:"required,min=1,max=5"`
	TotalPrice float64 `bson:"totalPrice" json:"totalPrice" validate:"required,gt=0"`
}

// AddressData is the delivery address and slot chosen by the customer.
type AddressData struct {
	FullName      string `bson:"fullName" json:"fullName" validate:"required"`
	PhoneNumber   string `bson:"phoneNumber" json:"phoneNumber" validate:"required,len=10,numeric"`
	StreetAddress string `bson:"streetAddress" json:"streetAddress" validate:"required"`
	Apartment     string `bson:"apartment,omitempty" json:"apartment,omitempty"`
	Landmark      string `bson:"landmark,omitempty" json:"landmark,omitempty"`
	City          string `bson:"city" json:"city" validate:"required"`
	State         string `bson:"state" json:"state" validate:"required"`
	Pincode       string `bson:"pincode" json:"pincode" validate:"required,len=6,numeric"`
	DeliveryDate  string `bson:"deliveryDate" json:"deliveryDate" validate:"required"`
	TimeSlot      string `bson:"timeSlot" json:"timeSlot" validate:"required"`
}

// Review is a customer rating attached to a delivered order. Set at most once.
type Review struct {
	Rating    int       `bson:"rating" json:"rating"`
	Review    string    `bson:"review" json:"review"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Complaint is a customer grievance attached to an order. Set at most once.
type Complaint struct {
	Text      string    `bson:"text" json:"text"`
	Status    string    `bson:"status" json:"status"` // pending, resolved
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Order is the durable record of a booking. OrderID is client-generated,
// unique and immutable; status only moves forward (COD: confirmed at
// creation; UPI: pending -> completed | failed).
type Order struct {
	OrderID          string         `bson:"orderId" json:"orderId"`
	Amount           float64        `bson:"amount" json:"amount"`
	BookingDetails   BookingDetails `bson:"bookingDetails" json:"bookingDetails"`
	AddressData      AddressData    `bson:"addressData" json:"addressData"`
	PaymentMethod    string         `bson:"paymentMethod" json:"paymentMethod"`
	CustomerUpiID    string         `bson:"customerUpiId,omitempty" json:"customerUpiId,omitempty"`
	MerchantUpiID    string         `bson:"merchantUpiId" json:"merchantUpiId"`
	Status           string         `bson:"status" json:"status"`
	PaymentConfirmed bool           `bson:"paymentConfirmed" json:"paymentConfirmed"`
	CreatedAt        time.Time      `bson:"createdAt" json:"createdAt"`
	Review           *Review        `bson:"review,omitempty" json:"review,omitempty"`
	Complaint        *Complaint     `bson:"complaint,omitempty" json:"complaint,omitempty"`
}
