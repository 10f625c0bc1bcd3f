package utils

import (
	"crypto/rand"
	"math/big"
)

// GeneratePIN returns a random 4-digit PIN code in [1000, 9999]
func GeneratePIN() int {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(err)
	}
	return int(n.Int64()) + 1000
}
