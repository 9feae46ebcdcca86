// Package conv provides safe integer type conversion utilities.
//
// These functions perform bounds checking to prevent integer overflow when
// narrowing parsed or counted values (dataset fields, batch indices) into
// fixed-width types.
package conv
