// Package config loads, normalizes, and validates subcue configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SUBCUE_API_TOKEN. The Config type centralizes every knob the server and CLI
// need so the data directory, parser policy, and fetch limits are discovered
// in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
