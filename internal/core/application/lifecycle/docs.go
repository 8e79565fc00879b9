// Package lifecycle keeps the dashboard's local view of a tenant's orders and
// reservations reconciled with the entity store.
//
// An OrderEngine applies change-feed events incrementally: inserts are
// re-fetched with their line items and prepended, updates are merged field by
// field, deletes remove the record. A ReservationEngine re-queries the whole
// reservation set on every event. Both publish immutable snapshots through a
// state.Store after each step.
//
// Mutations of one engine are serialized by its mutex. Remote reads run
// outside the critical section and are applied in completion order; results
// that complete after Stop are discarded.
//
// Orders carry a version bumped by the store on every status update. Merges
// and re-fetches that are not newer than the local record are dropped.
//
// The Hub owns one engine pair per tenant for as long as the tenant has
// dashboard viewers.
package lifecycle
