// Package config loads env-tagged configuration structs with per-type
// caching, so every component declares its own Config and shares a single
// parse of the process environment.
package config
