// Package layout computes deterministic layered (hierarchical) drawings of
// a concept graph.
//
// The engine works in three phases: rank assignment along edge direction,
// barycenter crossing reduction within ranks, and coordinate assignment
// from a fixed node box and spacing. Identical input always yields the
// identical layout, so re-rendering an unchanged deck never jitters.
package layout
