package utils

import (
	"strings"
	"testing"
)

const testKey = "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"

func TestGenerateCardNumber(t *testing.T) {
	for i := 0; i < 50; i++ {
		number, err := GenerateCardNumber("400000", 16)
		if err != nil {
			t.Fatal(err)
		}
		if len(number) != 16 {
			t.Fatalf("length=%d want=16: %s", len(number), number)
		}
		if !strings.HasPrefix(number, "400000") {
			t.Fatalf("missing prefix: %s", number)
		}
		if !ValidLuhn(number) {
			t.Fatalf("card number fails Luhn check: %s", number)
		}
	}
}

func TestGenerateCardNumberInvalidLength(t *testing.T) {
	if _, err := GenerateCardNumber("400000", 6); err == nil {
		t.Fatal("length equal to prefix should fail")
	}
	if _, err := GenerateCardNumber("400000", 20); err == nil {
		t.Fatal("length over 19 should fail")
	}
}

func TestValidLuhn(t *testing.T) {
	if !ValidLuhn("4539578763621486") {
		t.Fatal("known-good number rejected")
	}
	if ValidLuhn("4539578763621487") {
		t.Fatal("corrupted number accepted")
	}
	if ValidLuhn("") || ValidLuhn("45x9") {
		t.Fatal("non-numeric input accepted")
	}
}

func TestGenerateCVV(t *testing.T) {
	cvv, err := GenerateCVV()
	if err != nil {
		t.Fatal(err)
	}
	if len(cvv) != 3 {
		t.Fatalf("cvv length=%d want=3", len(cvv))
	}
	for _, r := range cvv {
		if r < '0' || r > '9' {
			t.Fatalf("cvv contains non-digit: %s", cvv)
		}
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := "4000001234567899"
	encrypted, err := Encrypt(plaintext, testKey)
	if err != nil {
		t.Fatal(err)
	}
	if encrypted == plaintext {
		t.Fatal("ciphertext equals plaintext")
	}

	decrypted, err := Decrypt(encrypted, testKey)
	if err != nil {
		t.Fatal(err)
	}
	if decrypted != plaintext {
		t.Fatalf("round trip mismatch: %q != %q", decrypted, plaintext)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	encrypted, err := Encrypt("secret data", testKey)
	if err != nil {
		t.Fatal(err)
	}
	otherKey := strings.Repeat("ab", 32)
	if _, err := Decrypt(encrypted, otherKey); err == nil {
		t.Fatal("decryption with the wrong key should fail")
	}
}

func TestEncryptBadKey(t *testing.T) {
	if _, err := Encrypt("data", "not-hex"); err == nil {
		t.Fatal("non-hex key should fail")
	}
	if _, err := Encrypt("data", "a1b2"); err == nil {
		t.Fatal("short key should fail")
	}
	if _, err := Encrypt("", testKey); err == nil {
		t.Fatal("empty input should fail")
	}
}

func TestGenerateHMACDeterministic(t *testing.T) {
	a := GenerateHMAC("4000001234567899", "01/28", "123", "secret")
	b := GenerateHMAC("4000001234567899", "01/28", "123", "secret")
	if a != b {
		t.Fatal("hmac must be deterministic")
	}
	if c := GenerateHMAC("4000001234567899", "01/28", "124", "secret"); c == a {
		t.Fatal("different input must change the hmac")
	}
}

func TestGeneratePIN(t *testing.T) {
	for i := 0; i < 100; i++ {
		pin := GeneratePIN()
		if pin < 1000 || pin > 9999 {
			t.Fatalf("pin %d outside [1000, 9999]", pin)
		}
	}
}
