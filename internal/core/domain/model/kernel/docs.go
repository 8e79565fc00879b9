// Package kernel holds the value objects shared by the order and reservation
// models: UUID identifiers and two-decimal Money amounts.
//
// Both types reject their zero value in Validate so that aggregates rebuilt
// from persistence or from change notifications cannot silently carry an
// unset id or amount.
package kernel
