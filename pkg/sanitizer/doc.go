// Package sanitizer provides input normalization for listing content.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings rather than errors. Sanitization runs
// before validation so validators see canonical input.
package sanitizer
