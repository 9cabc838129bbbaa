package util

import (
	"crypto/rand"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
)

var ulidPattern = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

// NewULID returns a time-ordered ULID. Session IDs end up in cookies, so the
// entropy comes from crypto/rand.
func NewULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// IsValidULID reports whether s is a canonical (Crockford base32) ULID.
func IsValidULID(s string) bool {
	return ulidPattern.MatchString(s)
}
