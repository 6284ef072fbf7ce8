package link

import (
	"github.com/dshills/panelink/internal/pane"
)

// BadgeLabel is the accessible label of the linked badge.
const BadgeLabel = "Linked pane"

// indicatorHost is the part of the host the indicator needs.
type indicatorHost interface {
	pane.Enumerator
	pane.Marker
}

// Indicator projects the registry onto tab-header badges. It keeps no state
// of its own.
type Indicator struct {
	host     indicatorHost
	registry *Registry
}

// NewIndicator creates an indicator for registry.
func NewIndicator(host indicatorHost, registry *Registry) *Indicator {
	return &Indicator{host: host, registry: registry}
}

// Refresh clears the badge on every live pane and sets it on exactly the
// linked ones. Calling it repeatedly yields the same markers.
func (i *Indicator) Refresh() {
	live := i.host.Panes()
	for _, id := range live {
		i.host.ClearBadge(id)
	}

	liveSet := pane.Set(live)
	for _, id := range i.registry.AllLinked() {
		if _, ok := liveSet[id]; ok {
			i.host.SetBadge(id, BadgeLabel)
		}
	}
}

// Clear removes badges from every live pane.
func (i *Indicator) Clear() {
	for _, id := range i.host.Panes() {
		i.host.ClearBadge(id)
	}
}
