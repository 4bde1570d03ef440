// Package sequence assembles the GEM and ME0 validation sequences.
//
// A sequence is the ordered composition of three validation modules, one per
// detector layer: simulated hits, digis and reconstructed hits. Each stage
// consumes what the previous one produced, so the order is fixed to
// hits → digis → rechits whatever order the modules were registered in.
//
// Modules are described by a Catalog. Assemble composes the two stock
// sequences from a catalog and returns them in a Config value that callers
// pass explicitly to whatever consumes them.
package sequence
