package models

import "time"

// User is a registered customer. Signup requires an Aadhaar number that
// exists in the pre-seeded registry; only existence is checked.
type User struct {
	UserID        string    `bson:"userid" json:"userid"`
	Username      string    `bson:"username" json:"username"`
	Password      string    `bson:"password" json:"-"`
	AadhaarNumber string    `bson:"aadhaarNumber" json:"aadhaarNumber,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	LastLogin     time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
}

// AadhaarRecord is an entry in the national-ID registry collection.
type AadhaarRecord struct {
	Number string `bson:"number" json:"number"`
	Name   string `bson:"name,omitempty" json:"name,omitempty"`
}
