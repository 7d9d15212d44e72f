// Package search implements the best-first prefix search over an optimised
// compgraph.Graph: a priority queue of partial compositions ordered by
// score density, sharing a prefix-tree path store, with incremental truth,
// length, method-count and duffer-run bound checks, part-head rotation
// consistency, and memory-bounded queue truncation. Grounded on
// monument/lib's search/best_first.rs and search/mod.rs, adapted from
// Rust's Arc-refcounted path nodes to heap-allocated, pointer-linked nodes
// the garbage collector reclaims once the frontier drops its last reference.
package search
