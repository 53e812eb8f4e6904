// Package model defines the in-memory catalog entities built from benchmark
// documents: products own stigs, stigs own controls, and controls point back to
// their stig and to the generic requirement (SRG) they implement.
//
// Every entity has exactly one total order (see order.go). Renderers work on
// sorted copies returned by the Sorted* helpers so a built catalog is never
// mutated while pages are written.
package model
