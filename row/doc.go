// Package row implements the permutation algebra that everything else in
// monument is built on: rows (permutations of N bells), their composition,
// inverse, and the handful of cheap queries the graph builder and falseness
// table need on the hot path.
//
// A Row is represented as a string of raw bytes, one per bell, each byte
// holding the zero-indexed bell number in that place. Strings are
// comparable and hashable for free in Go, so a Row can be used directly as
// a map key (and, in package compgraph, as a field of a map key) without a
// wrapper type — the cheap-hashing requirement in the specification falls
// out of the representation rather than needing a dedicated method.
package row
