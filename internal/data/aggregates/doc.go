// Package aggregates implements the make method and method graph write paths.
//
// Aggregates compose the manufacturing table repos and run every write inside
// executeWrite, which owns the transaction, the span and the metric hooks.
package aggregates
