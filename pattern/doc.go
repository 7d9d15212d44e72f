// Package pattern implements partial row specifications: Mask, which pins
// some bells to specific places and leaves the rest wild, and Pattern, the
// slightly richer music-matching form that additionally allows a single '*'
// wildcard run of unspecified length. Both are grounded on bellframe's
// mask.rs, adapted to Go's value-type idiom (a Mask is a []OptBell copied
// by assignment, never mutated through a shared pointer).
package pattern
