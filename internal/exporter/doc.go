// Package exporter persists the pipeline's artifacts: the cleaned
// incident table and summary tables as CSV, the combined Excel workbook,
// and one PNG chart per summary.
//
// File names and row ordering are stable, so an unchanged input produces
// byte-identical tabular output across runs. Nothing in this package is
// written until cleaning has fully completed; the orchestrator only calls
// in once it holds a CleanResult.
package exporter
