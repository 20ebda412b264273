// Package dataprocessing converts raw police incident rows into an
// analysis-ready table and computes the descriptive summaries the report
// is built from.
//
// # Architecture
//
// The package is organized into three components, applied in order:
//
//  1. Loader: reads the raw CSV and enforces the header contract
//  2. Cleaner: parses timestamps, normalizes categories, derives time
//     features, applies the plausible-age and location-sentinel policies
//  3. Aggregator: groups the cleaned table into fixed-shape summaries
//
// # Data flow
//
//	CSV file → RawTable → Cleaner → []Incident → Aggregator → summary tables
//
// Data flows strictly one way; the cleaned table is never mutated after
// creation and every aggregate is a read-only view over it.
//
// # Error handling
//
// A missing required column is a fatal schema error raised by the loader
// before cleaning starts. Row-level problems never abort a run: each
// dropped row is tallied under exactly one drop reason, and retained rows
// are excluded only from the specific aggregates they cannot support.
//
// # Determinism
//
// Every summary is deterministically ordered (count descending with
// label-ascending tie breaks, or fixed bucket/calendar order), so
// re-running the pipeline on unchanged input produces identical output.
package dataprocessing
