package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureValid(t *testing.T) {
	body := []byte(`{"event":"payment_link.paid","payload":{}}`)
	secret := "whsec_test"
	assert.True(t, VerifySignature(body, sign(body, secret), secret))
}

func TestVerifySignatureTamperedBody(t *testing.T) {
	body := []byte(`{"event":"payment_link.paid","amount":100}`)
	secret := "whsec_test"
	sig := sign(body, secret)

	tampered := []byte(`{"event":"payment_link.paid","amount":999}`)
	assert.False(t, VerifySignature(tampered, sig, secret))
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	body := []byte(`{"event":"payment_link.paid"}`)
	sig := sign(body, "whsec_test")
	assert.False(t, VerifySignature(body, sig, "whsec_other"))
}

func TestVerifySignatureEmpty(t *testing.T) {
	body := []byte(`{}`)
	assert.False(t, VerifySignature(body, "", "whsec_test"))
	assert.False(t, VerifySignature(body, sign(body, "whsec_test"), ""))
}

func TestUPILink(t *testing.T) {
	link := UPILink("merchant@upi", "AUTOSOCI", 70, "123-456")
	assert.True(t, strings.HasPrefix(link, "upi://pay?"))
	assert.Contains(t, link, "pa=merchant%40upi")
	assert.Contains(t, link, "am=70.00")
	assert.Contains(t, link, "cu=INR")
	assert.Contains(t, link, "tn=Order+123-456")
}

func TestQRPNG(t *testing.T) {
	png, err := QRPNG(UPILink("merchant@upi", "AUTOSOCI", 70, "123-456"))
	assert.NoError(t, err)
	// PNG magic header
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
