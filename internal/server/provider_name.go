package server

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/club-games-service/internal/providers"
)

// normalizeProviderName returns a lower-cased provider name, deriving from instance when not explicitly configured.
// Used across server wiring and provider factory to keep naming consistent in metrics/logs.
func normalizeProviderName(raw string, api providers.EventAPI) string {
	if raw = strings.TrimSpace(raw); raw != "" {
		return strings.ToLower(raw)
	}
	if api != nil {
		return strings.ToLower(fmt.Sprintf("%T", api))
	}
	return "provider"
}
