// Package configmanager loads Slipway pipeline configuration from declarative
// config files, environment variables, and CLI flags.
//
// Configuration priority: defaults < slipway.yaml < SLIPWAY_* environment
// variables < flags. Field selectors describe which Pipeline fields a command
// exposes as flags, and the manager generates the flag names from the field
// names so config keys and flags never drift apart.
package configmanager
