package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	g := NewHTTPGateway("https://gateway.test", "key", "secret")

	valid := sign("secret", "order_123|pay_456")
	if !g.VerifySignature("order_123", "pay_456", valid) {
		t.Fatalf("valid signature rejected")
	}

	if g.VerifySignature("order_123", "pay_456", sign("wrong", "order_123|pay_456")) {
		t.Fatalf("signature from wrong secret accepted")
	}
	if g.VerifySignature("order_999", "pay_456", valid) {
		t.Fatalf("signature for different order accepted")
	}
	if g.VerifySignature("order_123", "pay_456", "") {
		t.Fatalf("empty signature accepted")
	}
}
