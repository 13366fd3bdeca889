package validation

import (
	"regexp"
	"strings"
	"time"
)

// Fullname: letters, spaces, hyphens, apostrophes only.
var fullnameRe = regexp.MustCompile(`^[A-Za-z\s\-']+$`)

var nonDigitRe = regexp.MustCompile(`[^0-9]`)

// Government identity document patterns, keyed by document type.
var idPatterns = map[string]*regexp.Regexp{
	"PAN":      regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`),
	"AADHAAR":  regexp.MustCompile(`^[0-9]{12}$`),
	"PASSPORT": regexp.MustCompile(`^[A-Z][0-9]{7}$`),
	"VOTER_ID": regexp.MustCompile(`^[A-Z]{3}[0-9]{7}$`),
}

func IsValidFullname(fullname string) bool {
	return fullname != "" && fullnameRe.MatchString(fullname)
}

// NormalizeMobile strips non-digits and country-code prefixes, returning the
// canonical 10-digit Indian mobile number. ok is false for anything that does
// not reduce to 10 digits starting 6-9.
func NormalizeMobile(mobile string) (string, bool) {
	digits := nonDigitRe.ReplaceAllString(mobile, "")
	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		digits = digits[2:]
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return "", false
	}
	if digits[0] < '6' || digits[0] > '9' {
		return "", false
	}
	return digits, true
}

// IsValidGovernmentID reports whether number matches the fixed pattern for
// the given document type. Unknown types are invalid.
func IsValidGovernmentID(idType, number string) bool {
	re, ok := idPatterns[strings.ToUpper(strings.TrimSpace(idType))]
	if !ok {
		return false
	}
	return re.MatchString(strings.ToUpper(strings.TrimSpace(number)))
}

// KnownIDType reports whether the document type itself is recognised.
func KnownIDType(idType string) bool {
	_, ok := idPatterns[strings.ToUpper(strings.TrimSpace(idType))]
	return ok
}

// AgeAt computes completed years between dob and now using a month/day
// comparison, so the birthday itself counts and Feb 29 birthdays roll to
// Mar 1 in non-leap years.
func AgeAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}
