// Package imaging turns segmentation label masks into cells for rosette detection.
//
// A label mask is an image in which every pixel carries the label of the cell it
// belongs to. This package loads such masks, decodes the labels, and extracts for
// each label the pixel area, the centroid and the ordered outline that the rosette
// package consumes.
//
// # Mask Formats
//
// Three encodings are recognised:
//   - 16-bit grayscale: the label is the pixel value, 0 is background
//   - 8-bit grayscale: the label is the pixel value, 0 is background
//   - colour (RGB, RGBA, paletted): every distinct colour is one label, numbered
//     1..n in row-major order of first appearance; the background colour is
//     configurable and fully transparent pixels are always background
//
// Colour masks are decoded at 8 bits per channel.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Regions use an inclusive
// top-left (X1,Y1) and an exclusive bottom-right (X2,Y2). Coordinates reported
// for cells are always in full-image space, even when a region is analysed.
//
// # Boundaries
//
// The outline of a label is the set of its pixels removed by an erosion with
// the 4-connected cross, that is every pixel with a 4-neighbour outside the
// label. Outline points are ordered by angle around the centroid. Labels whose outline has fewer than three points, or whose area
// falls outside the configured limits, are reported as skipped rather than
// returned as cells.
//
// # Shape
//
// Every extracted cell also gets a CellShape: the outline size as perimeter,
// the equivalent diameter, extent, bounding box and the axes, eccentricity
// and orientation of the ellipse with the same second moments.
//
// # Thread Safety
//
// MaskCache is safe for concurrent use. DecodeLabels and ExtractCells are
// stateless and can be called concurrently on different masks.
package imaging
