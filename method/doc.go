// Package method holds the two building blocks composition search is
// defined over: Method, the named rule that produces one lead of a plain
// course, and Call, a labelled substitution that can replace the plain step
// at certain points in that lead. Both are grounded on bellframe's
// method.rs/place_not.rs, reduced to exactly what the composition search
// needs: a flat lead_block of rows plus sub-lead labels.
package method
