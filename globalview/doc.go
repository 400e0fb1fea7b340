// Package globalview stitches the intermediate views of a view.Set into one
// global embedding.
//
// An Engine is configured once from Options (algorithm names are resolved
// through the align registry at construction) and then driven in two
// phases:
//
//	Compose(ctx)        // overlap graph → view sequence → initial embedding
//	Refine(ctx, reset)  // tear-aware refinement, resumable
//
// Fit runs both. Result returns a snapshot of the embedding, the per-view
// transforms, the tear colouring and the refinement telemetry; Distances
// repairs pairwise distances across detected tears.
//
// Options carry toml tags for every configuration key and can be loaded
// with LoadOptions or written with Options.Encode.
//
// Errors:
//
//	ErrInvalidOption – a numeric option out of range
//	ErrAddDim        – Options.AddDim disagrees with the view set
//	ErrNotComposed   – Refine, Result or Distances before Compose
//	align.ErrNotImplemented, align.ErrUnknownAlgorithm,
//	knn.ErrUnsupportedMetric, tear.ErrUnknownColor,
//	spanning.ErrUnknownMethod – surfaced by Options.Validate
package globalview
