// Package forms holds the input normalization and validation shared by the
// dashboard screens. The rules mirror what the intake forms enforce before a
// record is forwarded upstream; nothing here talks to the network.
package forms

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

var (
	dateRe   = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	weightRe = regexp.MustCompile(`^\d+(\.\d+)?$`)
	digitRe  = regexp.MustCompile(`[^0-9]`)
)

// MaskDate reformats free-typed date input into DD/MM/YYYY as the user
// types: non-digits are stripped and slashes inserted after the day and
// month groups. "15032024" becomes "15/03/2024"; partial input keeps
// whatever groups are complete.
func MaskDate(raw string) string {
	digits := digitRe.ReplaceAllString(raw, "")
	var b strings.Builder
	if len(digits) > 0 {
		b.WriteString(digits[:min(2, len(digits))])
	}
	if len(digits) > 2 {
		b.WriteString("/")
		b.WriteString(digits[2:min(4, len(digits))])
	}
	if len(digits) > 4 {
		b.WriteString("/")
		b.WriteString(digits[4:min(8, len(digits))])
	}
	return b.String()
}

// ValidDate reports whether s is a complete DD/MM/YYYY date.
func ValidDate(s string) bool {
	return dateRe.MatchString(s)
}

// ToISODate converts DD/MM/YYYY to the YYYY-MM-DD form the upstream API
// stores.
func ToISODate(s string) (string, error) {
	if !ValidDate(s) {
		return "", fmt.Errorf("date %q is not in DD/MM/YYYY format", s)
	}
	parts := strings.Split(s, "/")
	return parts[2] + "-" + parts[1] + "-" + parts[0], nil
}

// ToDisplayDate converts a stored YYYY-MM-DD date back to DD/MM/YYYY.
// Anything else, including dates already in display form, passes through
// unchanged.
func ToDisplayDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}

// ValidWeight reports whether s is a plain decimal weight. Units or any
// other trailing text are rejected: "5.25" passes, "5.25kg" does not.
func ValidWeight(s string) bool {
	return weightRe.MatchString(s)
}

// PaymentModes are the settlement methods the cutting and wage forms
// accept, in dropdown order.
var PaymentModes = []string{"Cash", "Online", "Net Banking", "Cheque"}

// ValidPaymentMode reports whether s is one of the accepted settlement
// methods. Matching is exact; the forms submit the dropdown value as-is.
func ValidPaymentMode(s string) bool {
	for _, m := range PaymentModes {
		if s == m {
			return true
		}
	}
	return false
}

// TodayDDMMYYYY returns today's date in the form's display format.
func TodayDDMMYYYY() string {
	return time.Now().Format("02/01/2006")
}

// TodayISO returns today's date in the upstream storage format.
func TodayISO() string {
	return time.Now().Format("2006-01-02")
}

// NewUniqueNumber generates the 10-digit intake number printed on a fabric
// receipt's barcode. First digit is never zero so the number survives
// round-trips through numeric parsers.
func NewUniqueNumber() string {
	return fmt.Sprintf("%d", 1000000000+rand.Int63n(9000000000))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
