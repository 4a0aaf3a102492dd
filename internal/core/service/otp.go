package service

import "math/rand/v2"

const codeDigits = 6

// NewResetCode returns a 6-digit decimal one-time code. Each digit is drawn
// independently, so leading zeros are as likely as any other digit and the
// code is always exactly 6 characters. The source is math/rand/v2; whether
// a non-cryptographic source is acceptable for reset codes is a product
// decision, and callers can swap it via WithCodeSource.
func NewResetCode() string {
	code := make([]byte, codeDigits)
	for i := range code {
		code[i] = byte('0' + rand.IntN(10))
	}
	return string(code)
}
