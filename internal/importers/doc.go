// Package importers decodes third-party watch-history exports into the
// internal import entities.
//
// # Architecture
//
// The decode pipeline follows a simple flow:
//
//	Uploaded archive → Decode (provider dispatch) → raw records →
//	validation → mapped ImportMovie/ImportSeries → services.ImportService →
//	storage
//
// Each provider has a dedicated decode function that unpacks its archive
// format, validates the raw records, and maps them to the internal shape.
// Decoding is fully in-memory: archives are bounded by upload limits
// enforced at the boundary, so nothing is streamed.
//
// # Supported providers
//
//   - Letterboxd (letterboxd.go): ZIP archive containing watched.csv
//   - MyAnimeList (myanimelist.go): GZIP-compressed XML export
//
// # Error policy
//
// Decode functions return *DomainError for every anticipated failure
// (unreadable archive, malformed CSV structure) and wrap anything else as
// a generic 500-class DomainError. A raw parse error never escapes this
// package. The only panic is Decode being called with a provider that has
// no registered decoder, which is a programming error rather than bad
// user input.
package importers
