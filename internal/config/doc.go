// Package config loads, normalizes, and validates subfetch configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads the optional TOML file so the CLI can carry account
// credentials, a preferred language filter, and logging settings across
// invocations without repeating flags.
package config
