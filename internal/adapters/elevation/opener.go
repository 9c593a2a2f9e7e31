package elevation

import (
	"context"
	"fmt"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/bnema/rootbroker/internal/ports"
)

// Opener picks the elevation method from the settings current at Open time.
type Opener struct {
	settings ports.SettingsSource
	methods  map[domain.ElevationMethod]ports.ChannelOpener
}

var _ ports.ChannelOpener = (*Opener)(nil)

func NewOpener(settings ports.SettingsSource, su ports.ChannelOpener, local ports.ChannelOpener) *Opener {
	return &Opener{
		settings: settings,
		methods: map[domain.ElevationMethod]ports.ChannelOpener{
			domain.ElevationSu:    su,
			domain.ElevationLocal: local,
		},
	}
}

func (o *Opener) Open(ctx context.Context) (ports.Channel, error) {
	method := o.settings.Current().Elevation
	opener, ok := o.methods[method]
	if !ok || opener == nil {
		return nil, fmt.Errorf("elevation method %q: %w", method, domain.ErrChannelUnavailable)
	}

	return opener.Open(ctx)
}
