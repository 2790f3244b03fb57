// Package config loads, normalizes, and validates comicwebp configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the C2W_PATH environment variable
// for the workspace root. The workspace root falls back to a directory under
// os.TempDir so runs work on any platform without configuration.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
