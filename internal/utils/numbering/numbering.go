// Package numbering generates human-facing transaction numbers.
package numbering

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

const sequentialWidth = 6

// NextSequential returns the number that follows last, zero-padded to six digits.
// last is the highest numeric transaction number a user has, or 0 when none exist.
func NextSequential(last int64) string {
	return fmt.Sprintf("%0*d", sequentialWidth, last+1)
}

// ParseSequential returns the numeric value of a sequential transaction number.
// ok is false for numbers that are not purely digits, such as invoice numbers.
func ParseSequential(number string) (int64, bool) {
	if number == "" {
		return 0, false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(number, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// InvoiceNumber formats an invoice number as TB-<unix millis>-<3 digits>.
// Uniqueness is only probabilistic: two invoices created in the same
// millisecond collide with probability 1/1000.
func InvoiceNumber(now time.Time, suffix int) string {
	return fmt.Sprintf("TB-%d-%03d", now.UnixMilli(), suffix%1000)
}

// RandomSuffix returns a value in [0, 1000) for InvoiceNumber.
func RandomSuffix() int {
	return rand.IntN(1000)
}
