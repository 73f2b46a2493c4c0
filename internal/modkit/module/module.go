// Package module defines the minimal contract for a modkit module
package module

import (
	phttp "enricher/internal/platform/net/http"
)

// Module is the contract used by modkit
// it sits apart from modkit so a module can export its own ports type without import knots
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
