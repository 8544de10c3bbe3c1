package slug

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

const (
	alphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	minLength = 4
	maxLength = 6
)

// slugRe covers the character class and length; the hyphen placement rules
// (no leading, trailing, or doubled hyphen) are checked separately because
// Go's regexp has no lookaheads.
var slugRe = regexp.MustCompile(`^[A-Za-z0-9-]{3,12}$`)

var reservedKeywords = map[string]bool{
	"admin":  true,
	"api":    true,
	"help":   true,
	"login":  true,
	"signup": true,
	"404":    true,
}

// Generate produces a random 4-6 character alphanumeric slug. Uniqueness is
// not guaranteed here; the caller enforces it against the store.
func Generate() (string, error) {
	length, err := rand.Int(rand.Reader, big.NewInt(maxLength-minLength+1))
	if err != nil {
		return "", err
	}

	b := make([]byte, minLength+int(length.Int64()))
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		b[i] = alphabet[n.Int64()]
	}

	return string(b), nil
}

// Validate reports whether a candidate is an acceptable custom slug:
// 3-12 characters, letters and digits plus hyphens that are never leading,
// trailing, or doubled, and not a reserved keyword (case-insensitive).
func Validate(candidate string) bool {
	if !slugRe.MatchString(candidate) {
		return false
	}
	if strings.HasPrefix(candidate, "-") || strings.HasSuffix(candidate, "-") {
		return false
	}
	if strings.Contains(candidate, "--") {
		return false
	}
	return !reservedKeywords[strings.ToLower(candidate)]
}

// Normalize lowercases a slug. Applied on every write and every lookup so the
// active-set uniqueness invariant holds regardless of caller casing.
func Normalize(s string) string {
	return strings.ToLower(s)
}
