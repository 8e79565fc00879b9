// Package order models restaurant orders as seen by the dashboard.
//
// The package includes:
//   - Order: the aggregate holding identity, customer/table data, total, line items and status
//   - Item: an order line (name, quantity, unit price, optional note)
//   - Status: the closed status set and its transition graph
//   - Patch: a partial record from a change notification, merged with Order.Apply
//
// Key business rules:
//   - Status follows new -> preparing -> completed, with cancelled reachable from new or preparing
//   - completed and cancelled are terminal
//   - The total equals the sum of quantity x unit price, checked by NewOrder only;
//     orders restored from storage are trusted as stored
//   - Every stored order carries a version that grows with each write; Apply refuses
//     patches whose version is not newer than the one held
package order
