// Package srt turns SubRip documents into timed caption cues.
//
// Parse is the lenient entry point used by players: malformed blocks are
// dropped and malformed timecodes collapse to zero, so a broken cue never
// stops playback. ParseDetailed applies the same rules but reports every
// dropped block as a Diagnostic, which lets tooling surface warnings without
// changing what the player sees.
//
// The package also carries the small helpers that sit around a parsed track:
// byte decoding, advertisement cleanup, validation, rendering back to SRT and
// active-cue lookup during playback. Nothing here performs I/O or keeps
// state; every function is safe for concurrent use.
package srt
