package utils

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// FormatKip renders an amount in kip with thousands separators, e.g. 65000
// becomes "65,000". Kip has no fractional unit.
func FormatKip(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// GenerateTransactionNo generates a short human-readable transaction number
func GenerateTransactionNo() string {
	return "TXN-" + strings.ToUpper(uuid.New().String()[:8])
}
