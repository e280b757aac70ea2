package overlay

// fallbackMonitorProvider reports a single virtual 1920x1080 monitor. Used
// on platforms with no native monitor enumeration wired in, and as the
// failure fallback for the Windows/X11 providers.
type fallbackMonitorProvider struct {
	monitor Monitor
}

func newFallbackMonitorProvider() *fallbackMonitorProvider {
	return &fallbackMonitorProvider{
		monitor: Monitor{ID: "virtual", PhysW: 1920, PhysH: 1080, ScaleFactor: 1},
	}
}

func (p *fallbackMonitorProvider) Monitors() []Monitor { return []Monitor{p.monitor} }
func (p *fallbackMonitorProvider) Primary() Monitor    { return p.monitor }
