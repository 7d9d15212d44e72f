// Package compgraph builds, optimises, and multi-part-expands the
// composition graph: the intermediate representation the search explores.
// A Graph's Chunks are indivisible runs of ringing; its Links join them,
// optionally via a Call. The package is grounded on monument/lib's
// graph/mod.rs, graph/build.rs, graph/optimise.rs and graph/falseness.rs,
// adapted from Rust's Arc<Row>-keyed HashMap graph into a plain Go map
// keyed by a comparable ChunkID struct (row.Row is already a cheap,
// comparable string, so no reference counting is needed).
package compgraph
