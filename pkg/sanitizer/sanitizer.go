package sanitizer

type Strategy func(string) string

// SanitizeOptional applies strategy to the value behind v. A nil pointer and a
// pointer to the empty string are returned as-is, so "absent" never turns into
// "present but empty" and vice versa.
func SanitizeOptional(v *string, strategy Strategy) *string {
	if v == nil || *v == "" {
		return v
	}
	out := strategy(*v)
	return &out
}
