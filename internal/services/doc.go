// Package services defines shared utilities consumed by the track service,
// the HTTP server, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp track IDs, operation names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent HTTP statuses and CLI messages.
//
// Use these helpers when wiring new components so operational behaviour
// (error handling, observability) stays uniform.
package services
