// Package persona is the scoring and segmentation engine.
//
// Data flows strictly forward:
//
//	raw text -> canonical tokens -> review scores -> venue aggregates -> normalized scores -> segment
//
// Normalization and scoring are per review and may run in parallel. Scaling and segmentation are
// population-relative: they need the complete set of venue aggregates of one run and must be fed the
// whole population, never a subset. Nothing in this package performs I/O or keeps state between runs.
package persona
