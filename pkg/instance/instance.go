package instance

import (
	"os"

	"github.com/angelmondragon/potionshop-backend/pkg/env"
)

// GetID names this replica in logs. POTIONSHOP_INSTANCE_ID wins, then the
// platform's DYNO, then the hostname.
func GetID() string {
	if id := env.First("POTIONSHOP_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
