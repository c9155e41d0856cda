package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign returns the hex HMAC-SHA256 of payload under secret, the format the
// gateway uses for checkout and webhook signatures.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func verifyHMAC(secret string, payload []byte, signature string) bool {
	signature = strings.TrimSpace(signature)
	if secret == "" || signature == "" {
		return false
	}

	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), expected)
}

// VerifyPaymentSignature checks an order checkout signature.
func VerifyPaymentSignature(keySecret, orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" {
		return false
	}
	return verifyHMAC(keySecret, []byte(orderID+"|"+paymentID), signature)
}

// VerifySubscriptionSignature checks a subscription checkout signature.
// The payload order is payment first, unlike orders.
func VerifySubscriptionSignature(keySecret, subscriptionID, paymentID, signature string) bool {
	if subscriptionID == "" || paymentID == "" {
		return false
	}
	return verifyHMAC(keySecret, []byte(paymentID+"|"+subscriptionID), signature)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the raw body.
func VerifyWebhookSignature(webhookSecret string, body []byte, signature string) bool {
	return verifyHMAC(webhookSecret, body, signature)
}
