// Package buildconfig exposes build-time metadata injected via ldflags:
//
//	-ldflags "-X .../internal/buildconfig.version=v1.2.3 -X .../internal/buildconfig.commit=abc123"
package buildconfig

var (
	version = "dev"
	commit  = "unknown"
)

// Version returns the injected build version, "dev" for local builds.
func Version() string {
	return version
}

// Commit returns the injected git commit hash.
func Commit() string {
	return commit
}
