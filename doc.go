// Package astarnn implements a locality-sensitive hashing core built on the
// A* lattice in n dimensions.
//
// Given a real-valued query vector in R^n, an Engine answers three
// geometric questions:
//
//   - Nearest: which lattice point is closest (Voronoi cell containment).
//   - Delaunay: which n+1 lattice points form the vertices of the Delaunay
//     cell containing the query.
//   - Extended: which lattice points lie within a bounded number of shells
//     around the lattice hole nearest the query, for multi-probe LSH.
//
// Each lattice point is identified by a compact integer c-vector and a
// 64-bit hash code suitable as a bucket key in a hash map. astarnn does not
// rank results by distance and does not store an inverted index from hash
// codes to caller values — it is the geometry and probing core that such an
// index is built on top of.
//
// # Quick start
//
//	eng, err := astarnn.New(128, 1.0, 4)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer eng.Close()
//
//	v := make([]float64, 128)
//	hash, err := eng.NearestHash(v)
//
// # Callback shapes
//
// Queries are driven by one of four sealed callback shapes (FullCallback,
// HashCallback, CVectorCallback, PointCallback) so that a caller who only
// needs c-vectors or points never pays for hash computation. Every query
// maintains the probe's c-vector internally whatever the shape, so a
// hash-only caller saves no c-vector work. See
// KeepHashes, KeepCVectors, KeepProbes and KeepPoints for ready-made
// collectors.
package astarnn
