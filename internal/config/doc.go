// Package config provides centralized configuration management for the
// crime report pipeline.
//
// Configuration is resolved in three layers: struct-tag defaults, then
// CRIMELENS_-prefixed environment variables, then an optional YAML file,
// with later layers winning. The resulting Config carries every policy
// knob the pipeline depends on (plausible age range, night-hour window,
// top-N sizes, chart dimensions, logging) so components receive explicit
// parameters instead of reading globals.
//
// The Paths type is the single source of truth for output file locations.
// Artifact names are constants so that re-running the tool on an unchanged
// input produces the same file paths.
package config
