// Package app is the composition root of the crime report pipeline. It
// wires the loader, cleaner, aggregator and exporters together and runs
// them once, synchronously, per invocation.
//
// Output ordering guarantees: no artifact is written until cleaning has
// fully completed, so a fatal load or schema error leaves the output
// directory untouched.
package app
