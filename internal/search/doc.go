// Package search filters the loaded directory lists on every keystroke.
//
// Key functions:
//   - Customers: digits-only phone substring match
//   - Products: case-insensitive name substring match
//   - Digits: the phone normalization shared by both sides of the comparison
package search
