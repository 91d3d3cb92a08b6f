// Package conv provides bounds-checked integer conversions for slot ids and
// snapshot headers.
package conv
