// Package server exposes the tracks service over HTTP for the learning
// player.
//
// Routes:
//
//	POST   /api/parse                raw SRT body -> cues, diagnostics, issues
//	GET    /api/tracks               cached tracks
//	POST   /api/tracks               {"source": url-or-path} -> import
//	GET    /api/tracks/{id}          track detail
//	GET    /api/tracks/{id}/cues     cues; ?at=SECONDS adds playback lookup
//	DELETE /api/tracks/{id}          remove a cached track
//	POST   /api/quiz                 word-ordering exercise
//
// Every response carries an X-Request-ID header. When an API token is
// configured all routes except /api/health require a bearer token. Start
// takes an exclusive flock on the data directory so only one server uses a
// cache at a time.
package server
