// Package config loads, normalizes, and validates contentstore configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CONTENTSTORE_PUBLIC_URI. The Config type centralizes every knob the daemon
// and CLI need so directories, the origin filter and the public asset base
// are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
