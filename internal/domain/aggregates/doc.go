// Package aggregates defines the write contracts of the method graph engine.
//
// Each aggregate owns the transaction boundary of its writes and reports
// failures as *Error values carrying one of the ErrorCode constants.
package aggregates
