package domain

// SignalKind tells which detection strategy produced a signal.
type SignalKind string

const (
	SignalPath    SignalKind = "path"
	SignalHost    SignalKind = "host"
	SignalMarker  SignalKind = "marker"
	SignalKeyword SignalKind = "keyword"
)

// Signal is one piece of weighted evidence gathered during discovery.
// Keyword signals are diagnostic only and carry no provider attribution.
type Signal struct {
	Provider RISProvider
	Kind     SignalKind
	Value    string
	Weight   float64
}

// DiscoveryResult is the outcome of probing one municipality for a RIS.
// RISBaseURL is empty when no instance was located. A result with
// Provider == ProviderUnknown is a valid terminal classification.
type DiscoveryResult struct {
	Municipality Municipality
	RISBaseURL   string
	Provider     RISProvider
	Confidence   float64
	Signals      []Signal
}
