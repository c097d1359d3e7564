package upi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateID(t *testing.T) {
	cases := []struct {
		id    string
		valid bool
	}{
		{"alice@upi", true},
		{"rahul.kumar-96@okaxis", true},
		{"alice@u", false},   // domain shorter than 3 chars
		{"alice.upi", false}, // no @
		{"@upi", false},
		{"alice@ok1", false}, // digits not allowed in domain
		{"", false},
	}

	for _, tc := range cases {
		err := ValidateID(tc.id)
		if tc.valid {
			assert.NoError(t, err, tc.id)
		} else {
			assert.ErrorIs(t, err, ErrInvalidID, tc.id)
		}
	}
}

func TestPaymentLinks(t *testing.T) {
	links := PaymentLinks(1000, "ORD123", "agnigas@okaxis")

	assert.True(t, strings.HasPrefix(links.DeepLink, "upi://collect?"))
	assert.Contains(t, links.DeepLink, "pa=agnigas%40okaxis")
	assert.Contains(t, links.DeepLink, "am=1000.00")
	assert.Contains(t, links.DeepLink, "tr=ORD123")
	assert.Contains(t, links.DeepLink, "cu=INR")

	assert.Contains(t, links.GPayWeb, "pay.google.com")
	assert.Contains(t, links.GPayWeb, "am=1000.00")

	assert.True(t, strings.HasPrefix(links.IntentURL, "intent://upi/pay?"))
	assert.True(t, strings.HasSuffix(links.IntentURL, ";end"))
}

func TestQRPNG(t *testing.T) {
	links := PaymentLinks(500, "ORD9", "agnigas@okaxis")
	b64, err := QRPNG(links.DeepLink)
	require.NoError(t, err)
	assert.NotEmpty(t, b64)
}
