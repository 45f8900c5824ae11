package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// GenerateUUID generates a UUID v4 string.
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateOrderID builds an order id from the chat id and the current
// unix timestamp. The hyphen separator keeps callback data (joined with
// underscores) splittable.
func GenerateOrderID(chatID int64) string {
	return fmt.Sprintf("%d-%d", chatID, time.Now().Unix())
}

// indianMobile matches a 10-digit Indian mobile number with optional
// +91 / 91 / 0 prefix.
var indianMobile = regexp.MustCompile(`^(?:\+?91|0)?([6-9][0-9]{9})$`)

// NormalizePhone validates an Indian mobile number and returns its
// bare 10-digit form.
func NormalizePhone(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	m := indianMobile.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ValidLink reports whether s is an absolute http(s) URL with a host.
func ValidLink(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// ParseInt safely converts string to int with a default value.
func ParseInt(s string, defaultVal int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultVal
	}
	return v
}

// IsNumeric checks if a string is numeric.
func IsNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// FormatNumber adds comma separators to a number.
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var result strings.Builder
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	if neg {
		return "-" + result.String()
	}
	return result.String()
}

// NowUnix returns current Unix timestamp.
func NowUnix() int64 {
	return time.Now().Unix()
}
