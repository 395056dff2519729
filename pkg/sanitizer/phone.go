package sanitizer

import "regexp"

var reNonDigit = regexp.MustCompile(`[^0-9]+`)

func DigitsOnly(phone string) string {
	return reNonDigit.ReplaceAllString(phone, "")
}

// SanitizeNumber reduces a stored phone number to its ASCII digits.
func SanitizeNumber(phone *string) *string {
	return SanitizeOptional(phone, DigitsOnly)
}
