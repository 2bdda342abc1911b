// Package render composes banner states into raster images.
//
// The renderer draws one of three fixed layouts (single, duo, panel)
// onto a canvas sized by the active dimension and an optional pixel
// ratio multiplier. All geometry derives from a shared parameter set
// so the three output shapes stay visually consistent. A mounted
// preview registers itself as a Surface in a Registry, which is how
// the export pipeline locates the live capture target.
package render
