// Package core implements the business logic behind the Ringoptima
// API: CSV import orchestration, the in-memory contact snapshot with
// its derived filter and stats caches, write-through mutations and
// user-facing error mapping.
//
// The Service is the only entry point. Handlers never talk to the
// store directly; they hand the Service raw bytes, filters and
// partial updates and get back domain values or mapped errors.
package core
