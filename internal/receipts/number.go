package receipts

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const suffixAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const suffixLen = 6

// NewReceiptNumber returns a fresh receipt number of the form
// <PREFIX>-<YEAR>-<SUFFIX>. The caller persists it atomically with the
// SUCCESS transition; a number generated for a transition that did not
// apply is simply discarded.
func NewReceiptNumber(prefix string, now time.Time) (string, error) {
	b := make([]byte, suffixLen)
	max := big.NewInt(int64(len(suffixAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = suffixAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%s-%d-%s", prefix, now.Year(), string(b)), nil
}
