package ports

import "github.com/bnema/rootbroker/internal/domain"

// SettingsSource exposes the current settings snapshot. Adapters read it at
// the moment they act so that configuration changes apply to the next
// session without rewiring.
type SettingsSource interface {
	Current() domain.Settings
}
