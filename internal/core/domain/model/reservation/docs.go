// Package reservation models table reservations.
//
// Unlike orders, reservation statuses form no directed graph: staff may move a
// reservation between pending, confirmed, cancelled and completed in any
// order. The package therefore only validates the status value itself.
package reservation
