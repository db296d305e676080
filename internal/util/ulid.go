package util

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewID generates a ULID string stamped with t.
func NewID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)

	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// ValidID reports whether s is a well-formed ULID, e.g. a report id taken from a URL.
func ValidID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

// NewCustomerID returns a Stripe-looking customer id ("cus_" + lower-case ULID).
func NewCustomerID(t time.Time) string {
	return "cus_" + strings.ToLower(NewID(t))
}
