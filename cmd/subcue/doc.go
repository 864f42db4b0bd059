// Package main hosts the subcue CLI entrypoint and command graph.
//
// The Cobra-based command tree parses and checks local SRT files, manages the
// document cache (fetch, tracks, cues, remove), builds dictation exercises,
// runs the HTTP API server, and scaffolds configuration. It centralizes
// configuration resolution and logging setup so subcommands can focus on
// output.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
