// Package store caches raw subtitle documents in SQLite.
//
// Only the source text is persisted, keyed by where it came from (a URL or a
// file path) and identified by a UUID. Parsed cues are never stored: callers
// re-parse the text on demand so parser policy changes take effect without a
// migration.
//
// The database is treated as a cache rather than an archive. Schema changes
// bump schemaVersion in schema.go; users delete the database to adopt them.
package store
