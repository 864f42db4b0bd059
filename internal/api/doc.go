// Package api defines the service layer and wire-format types shared by the
// CLI and the HTTP server. It translates cached documents and parse results
// into transport-friendly DTOs.
//
// # Key Types
//
// Track: transport representation of a cached subtitle document.
//
// TrackDetail: a track plus parse statistics and validation issues.
//
// CueList: the cues of a track (re-parsed on demand) with diagnostics and
// optional playback lookup results.
//
// # Services
//
// TrackService: Import, List, Describe, Cues, Remove, ParseText and Quiz.
// Cues are never stored; every read parses the cached body again so parser
// policy changes apply immediately.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for JavaScript/TypeScript consumers. Cue field
// names match the player contract (id, startTime, endTime, primaryText,
// secondaryText). Timestamps use RFC3339 with milliseconds.
package api
