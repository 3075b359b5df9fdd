// Package instance identifies the running process for log correlation when
// several replicas share one log stream.
package instance

import "os"

// GetID returns the configured instance identifier, falling back to the
// hostname and then a static default.
func GetID() string {
	if id := os.Getenv("AQUATRACK_INSTANCE_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
