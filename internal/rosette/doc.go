// Package rosette identifies multicellular junctions and rosettes from cell
// boundary geometry.
//
// The input is a set of cells, each an ordered boundary polygon with a centroid
// and area, as produced by a segmentation step. The package finds every place
// where cell boundaries come within a configurable radius of one another and
// reports those places as vertices, each carrying the set of participating cells.
// Vertices whose cell count reaches a threshold (five by default) are rosettes.
//
// # Pipeline
//
// Detection is a strictly linear sequence of pure stages:
//
//  1. FindContacts: for every pair of cells whose boundaries come within
//     VertexRadius, emit one ContactPoint at the midpoint of the closest
//     boundary point pair. A uniform grid over boundary points limits the
//     comparison to points in neighbouring buckets.
//  2. ClusterContacts: merge contact points into vertices by connected
//     components over the proximity graph (union-find over a grid index).
//  3. ClassifyRosettes: keep vertices with at least MinCellsForRosette cells and
//     number them row-major (top to bottom, then left to right), starting at 1.
//  4. TallyJunctions: count, per cell, the 3,4,5,6,7 and 8+ cell junctions the
//     cell participates in.
//
// CountNeighbors reuses stage 1 with a small radius to count adjacent cells, and
// SummarizeJunctions reduces the tallies to per-order totals. Detector runs all
// of it and returns a Result.
//
// # Coordinate System
//
// Positions are float64 pixel coordinates with the origin at the top-left
// corner, X increasing rightward and Y increasing downward.
//
// # Determinism
//
// Every stage produces the same output for the same input regardless of input
// order or worker count. Vertex IDs and rosette indices are assigned after a
// row-major sort of positions.
//
// # Concurrency
//
// FindContacts spreads cells over a bounded worker pool; each worker reads the
// shared grid and writes only its own result slot. Every other stage runs on the
// calling goroutine. A Detector holds no mutable state and may be shared.
//
// # Limitations
//
// Clustering is transitive: two physically distinct junctions that lie within
// VertexRadius of each other, or are linked through a chain of contact points,
// collapse into one vertex whose cell set is the union of both. The vertex
// Spread field (largest distance from a member contact point to the vertex
// position) exposes this; a Spread above VertexRadius marks a coarsened vertex.
//
// Gapless label masks make this worse. Cells that share an edge are one pixel
// apart along the whole edge, so every pixel pair across it ties for closest.
// FindContacts keeps the first tie in boundary order, which puts the contact at
// one end of the edge rather than its middle, often near an unrelated corner.
// Contacts from neighbouring edges then chain into vertices of spurious order,
// and three-cell junctions can surface as four- or five-cell rosettes. Check
// Spread before trusting high-order vertices from such masks.
package rosette
