// Package sanitizer provides input normalization functions for CRM record fields.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. They never fail on content: whatever string comes in, a string
// comes out.
//
// Normalization includes:
//   - Phone numbers: strip every character that is not an ASCII digit ("(555) 123-4567" becomes "5551234567")
//   - Optional values: a nil or empty value is passed through untouched
//
// Phone normalization is deliberately not validation. Length, leading zeros and
// country codes are left exactly as the digits appear in the input.
package sanitizer
