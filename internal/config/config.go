// Package config holds compiled-in defaults. Runtime configuration comes
// from CLI flags and environment variables in cmd/bodyshop.
package config

const (
	// DefaultPort is the default HTTP listen port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty on purpose: the database URL carries
	// credentials and must come from a flag or the environment.
	DefaultDatabaseURL = ""

	// DefaultLogLevel is the slog level used when none is given.
	DefaultLogLevel = "info"
)
