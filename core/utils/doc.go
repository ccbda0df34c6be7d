// Package utils contains small shared helpers.
//
// The rounding helpers implement the business rule for derived irrigation
// quantities: 2 decimal places, half-up.
package utils
