// Package monument searches for change-ringing compositions: sequences of
// rows produced by splicing together method leads, punctuated by calls,
// that start and end at designated rows, visit only true rows, satisfy
// length and per-method count bounds, and maximise a musical score.
//
// A caller builds a Parameters describing the search, a Config describing
// its resource envelope, constructs a Search with NewSearch, and calls
// Search.Run with an Update callback and an abort flag. The graph is built
// once by package compgraph, optimised to a fixed point, optionally
// expanded for multi-part searches, and then explored by package search's
// best-first frontier; this package is the single gate translating
// user-facing Parameters into those packages' internal request types and
// translating search.Composition back into the public Composition type.
package monument
