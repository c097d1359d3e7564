package upi

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	qrcode "github.com/skip2/go-qrcode"
)

var ErrInvalidID = errors.New("invalid UPI ID")

// A valid handle is local-part@domain with an alphabetic domain of at least
// three characters, e.g. "alice@upi".
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z]{3,}$`)

func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}

// Links are the wallet-app payloads handed to the customer. The server
// never talks to a gateway; confirmation arrives on the webhook.
type Links struct {
	DeepLink  string `json:"deepLink"`
	GPayWeb   string `json:"gpayWeb"`
	IntentURL string `json:"intentUrl"`
}

const payeeName = "Agni Gas Booking"

// PaymentLinks builds the upi:// deep link, the GPay web URL and the
// Android intent URL for a collect request against the merchant VPA.
func PaymentLinks(amount float64, orderID, merchantVPA string) Links {
	formatted := fmt.Sprintf("%.2f", amount)
	note := "Gas Booking - " + orderID

	params := url.Values{}
	params.Set("pa", merchantVPA)
	params.Set("pn", payeeName)
	params.Set("tr", orderID)
	params.Set("tn", note)
	params.Set("am", formatted)
	params.Set("cu", "INR")
	params.Set("mode", "00")
	params.Set("purpose", "00")
	encoded := params.Encode()

	return Links{
		DeepLink: "upi://collect?" + encoded,
		GPayWeb: fmt.Sprintf(
			"https://pay.google.com/payments/u/0/home#v2g?pa=%s&pn=%s&tr=%s&am=%s&cu=INR&tn=%s",
			merchantVPA, url.QueryEscape(payeeName), orderID, formatted, url.QueryEscape(note)),
		IntentURL: "intent://upi/pay?" + encoded +
			"#Intent;scheme=upi;package=com.google.android.apps.nbu.paisa.user;end",
	}
}

// QRPNG renders the deep link as a base64 PNG so the frontend can show a
// scannable code next to the payment instructions.
func QRPNG(deepLink string) (string, error) {
	png, err := qrcode.Encode(deepLink, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
