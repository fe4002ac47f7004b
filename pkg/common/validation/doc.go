// Package validation checks the arguments handed to stream constructors and
// source adapters. Each helper returns a *errors.ValidationError naming the
// component and field so callers can surface a hint, or nil when the value is
// acceptable.
package validation
