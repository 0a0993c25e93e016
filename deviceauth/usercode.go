package deviceauth

import (
	"crypto/rand"
	"strings"

	"github.com/pkg/errors"
)

// userCodeAlphabet avoids characters that read ambiguously when a human
// copies the code between screens (no 0/O, no 1/I).
const (
	userCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	userCodeLength   = 8
)

// GenerateUserCode produces a new canonical (normalized) user code.
func GenerateUserCode() (string, error) {
	buf := make([]byte, userCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "[GenerateUserCode] rand.Read")
	}
	code := make([]byte, userCodeLength)
	for i, b := range buf {
		code[i] = userCodeAlphabet[int(b)%len(userCodeAlphabet)]
	}
	return string(code), nil
}

// FormatUserCode renders a canonical code for display, "ABCD-1234" style.
// Codes of unexpected length are returned as-is.
func FormatUserCode(code string) string {
	code = NormalizeUserCode(code)
	if len(code) != userCodeLength {
		return code
	}
	return code[:userCodeLength/2] + "-" + code[userCodeLength/2:]
}

// NormalizeUserCode uppercases the raw input and strips everything that is
// not a letter or digit. A user code is only meaningful for comparison after
// normalization: "abcd-1234", "ABCD 1234" and "abcd1234" are the same code.
func NormalizeUserCode(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToUpper(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// UserCodesMatch compares two raw codes after normalization.
func UserCodesMatch(a, b string) bool {
	normalized := NormalizeUserCode(a)
	return normalized != "" && normalized == NormalizeUserCode(b)
}
