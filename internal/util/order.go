package util

import (
	"crypto/rand"
	"math/big"
)

const OrderPrefix = "NK-"

// OrderNumber is OrderPrefix followed by a six digit number in
// 100000..999999.
func OrderNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return OrderPrefix + itoa6(100000+n.Int64()), nil
}

func itoa6(n int64) string {
	b := []byte("000000")
	for i := 5; i >= 0; i-- {
		b[i] = byte('0' + (n % 10))
		n /= 10
	}
	return string(b)
}
