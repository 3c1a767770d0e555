// Package instance names the running process for logs and lock ownership.
package instance

import (
	"os"

	"github.com/sumopedidos/sumo-backend/pkg/env"
)

const fallbackID = "local"

// ID returns SUMO_INSTANCE_ID, then the platform dyno name, then the host name.
func ID() string {
	if id := env.FirstOf("SUMO_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
