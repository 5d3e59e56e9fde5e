// Package pipeline runs viewpoint design over a batch of anchors. It streams
// alignability maps one chromosome at a time and designs that chromosome's
// anchors on a bounded pool of goroutines.
//
// The only contracts to implement are MapSource and design.Genome, which
// keeps the driver testable without files.
package pipeline
