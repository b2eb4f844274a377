package payflow

import "math/rand"

const txIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
const txIDLength = 10

// NewTransactionID generates the placeholder confirmation token: ten
// uppercase base-36 characters. It is a display token, not proof of
// payment, and is recorded server-side without verification.
func NewTransactionID() string {
	buf := make([]byte, txIDLength)
	for i := range buf {
		buf[i] = txIDAlphabet[rand.Intn(len(txIDAlphabet))]
	}
	return string(buf)
}
