package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSecretKey(t *testing.T) {
	assert.ErrorIs(t, ValidateSecretKey(""), ErrMissingSecretKey)
	assert.ErrorIs(t, ValidateSecretKey("pk_test_123"), ErrPublishableKey)
	assert.NoError(t, ValidateSecretKey("sk_test_123"))
}

func TestNewStripeProcessorRejectsBadKeys(t *testing.T) {
	_, err := NewStripeProcessor("")
	assert.ErrorIs(t, err, ErrMissingSecretKey)

	_, err = NewStripeProcessor("pk_live_123")
	assert.ErrorIs(t, err, ErrPublishableKey)

	processor, err := NewStripeProcessor("sk_test_123")
	require.NoError(t, err)
	assert.NotNil(t, processor)
}

func TestClamps(t *testing.T) {
	assert.Equal(t, int64(1), ClampQuantity(0))
	assert.Equal(t, int64(1), ClampQuantity(-4))
	assert.Equal(t, int64(3), ClampQuantity(2.6))

	assert.Equal(t, int64(0), ClampUnitAmount(-500))
	assert.Equal(t, int64(1490), ClampUnitAmount(1490))
	assert.Equal(t, int64(1490), ClampUnitAmount(1489.6))
}

func TestCheckoutLineItems(t *testing.T) {
	items := []PaymentItem{
		{Name: "Bitcoin Tee", Quantity: 2, Price: 8990},
		{Quantity: 0, Price: -100},
	}

	lines := CheckoutLineItems(items, "GLS", 1200)
	require.Len(t, lines, 3)

	assert.Equal(t, int64(2), *lines[0].Quantity)
	assert.Equal(t, int64(8990), *lines[0].PriceData.UnitAmount)
	assert.Equal(t, "Bitcoin Tee", *lines[0].PriceData.ProductData.Name)
	assert.Equal(t, "huf", *lines[0].PriceData.Currency)

	// Missing name defaulted, quantity floored, negative amount clamped.
	assert.Equal(t, "Termék", *lines[1].PriceData.ProductData.Name)
	assert.Equal(t, int64(1), *lines[1].Quantity)
	assert.Equal(t, int64(0), *lines[1].PriceData.UnitAmount)

	assert.Equal(t, "Szállítás – GLS", *lines[2].PriceData.ProductData.Name)
	assert.Equal(t, int64(1), *lines[2].Quantity)
	assert.Equal(t, int64(1200), *lines[2].PriceData.UnitAmount)
}

func TestCheckoutLineItemsOmitsFreeShipping(t *testing.T) {
	lines := CheckoutLineItems([]PaymentItem{{Name: "Tee", Quantity: 1, Price: 8990}}, "GLS", 0)
	require.Len(t, lines, 1)
	assert.Equal(t, "Tee", *lines[0].PriceData.ProductData.Name)
}

func TestRedirectURLs(t *testing.T) {
	assert.Equal(t,
		"https://shop.example/checkout/success?order_id=abc123&session_id={CHECKOUT_SESSION_ID}",
		SuccessURL("https://shop.example", "abc123"))
	assert.Equal(t,
		"https://shop.example/checkout?canceled=1&order_id=abc123",
		CancelURL("https://shop.example", "abc123"))
}
