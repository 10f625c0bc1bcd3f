package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateCardNumber generates a Luhn-valid card number with the given
// prefix and total length
func GenerateCardNumber(prefix string, length int) (string, error) {
	if length <= len(prefix) || length > 19 {
		return "", fmt.Errorf("invalid card number length: %d", length)
	}

	digits := make([]byte, length-len(prefix)-1)
	if _, err := rand.Read(digits); err != nil {
		return "", fmt.Errorf("failed to generate random digits: %w", err)
	}

	var builder strings.Builder
	builder.WriteString(prefix)
	for _, b := range digits {
		builder.WriteByte(b%10 + '0')
	}
	body := builder.String()

	return body + string(luhnCheckDigit(body)+'0'), nil
}

// luhnCheckDigit computes the digit making body pass the Luhn check
func luhnCheckDigit(body string) byte {
	sum := 0
	// The check digit will sit at an odd position from the right, so the
	// rightmost body digit is doubled.
	double := true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return byte((10 - sum%10) % 10)
}

// ValidLuhn reports whether the card number passes the Luhn check
func ValidLuhn(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		if number[i] < '0' || number[i] > '9' {
			return false
		}
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return len(number) > 0 && sum%10 == 0
}

// GenerateExpiryDate generates a card expiry date (MM/YY)
func GenerateExpiryDate() string {
	now := time.Now()
	year := now.Year() + 3 // Cards valid for 3 years
	return fmt.Sprintf("%02d/%02d", now.Month(), year%100)
}

// GenerateCVV generates a 3-digit CVV code
func GenerateCVV() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate cvv: %w", err)
	}
	return fmt.Sprintf("%d%d%d", b[0]%10, b[1]%10, b[2]%10), nil
}

// GenerateHMAC generates an HMAC for card details
func GenerateHMAC(cardNumber, expiryDate, cvv, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(cardNumber + expiryDate + cvv))
	return hex.EncodeToString(h.Sum(nil))
}

// Encrypt encrypts data with AES-GCM. The key is hex-encoded and must decode
// to 16, 24 or 32 bytes.
func Encrypt(data, hexKey string) (string, error) {
	if data == "" {
		return "", fmt.Errorf("input data is empty")
	}
	gcm, err := newGCM(hexKey)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(data), nil)
	return hex.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt
func Decrypt(encryptedData, hexKey string) (string, error) {
	gcm, err := newGCM(hexKey)
	if err != nil {
		return "", err
	}

	raw, err := hex.DecodeString(encryptedData)
	if err != nil {
		return "", fmt.Errorf("failed to decode hex: %w", err)
	}
	if len(raw) < gcm.NonceSize() {
		return "", fmt.Errorf("encrypted data too short: %d bytes", len(raw))
	}

	plaintext, err := gcm.Open(nil, raw[:gcm.NonceSize()], raw[gcm.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}

func newGCM(hexKey string) (cipher.AEAD, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key must be hex-encoded: %w", err)
	}
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 16, 24, or 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
