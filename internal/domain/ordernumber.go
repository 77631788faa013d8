package domain

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const OrderNumberPrefix = "HB"

// NewOrderNumber returns HB + yyMMdd + a zero-padded 4 digit random suffix.
// Uniqueness is enforced by the orders table, callers retry on conflict.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("%s%s%04d", OrderNumberPrefix, now.Format("060102"), rand.IntN(10000))
}
