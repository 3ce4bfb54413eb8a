// Package csv implements the lead-list ingestion pipeline: a
// quoted-field tokenizer, fuzzy header resolution, heuristic
// phone/owner/operator extraction from free-text registry columns,
// assembly into canonical contact records, and the matching export
// serializer.
//
// The pipeline is pure and single-pass: raw text in, contact records
// out. Deduplication of extracted phone numbers is scoped per source
// row, so callers may process rows in any order or in parallel.
//
// Source files are export dumps from a business registry. They have
// no fixed schema: headers vary between Swedish and English, phone
// numbers appear in several notations, and some columns hold
// multi-line blobs mixing numbers, owner names and carrier names.
// Everything here is written to tolerate that, preferring a skipped
// row over a failed import.
package csv
