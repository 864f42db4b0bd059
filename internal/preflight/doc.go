// Package preflight provides readiness checks for the filesystem paths and
// network bind address that subcue depends on.
//
// The CLI "subcue status" command runs RunAll and renders each Result. The
// server lock check is informational: a held lock means a server is running
// against the same data directory.
package preflight
