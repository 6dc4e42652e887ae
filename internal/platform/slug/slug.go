package slug

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// Make turns an arbitrary id into a file-system safe name.
func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = unsafeChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "unit"
	}
	return s
}

// Unique is Make followed by a short hash of the raw input, so ids that slug alike stay apart.
func Unique(input string) string {
	sum := sha256.Sum256([]byte(input))
	return Make(input) + "-" + hex.EncodeToString(sum[:4])
}
