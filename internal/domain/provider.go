package domain

// RISProvider enumerates the known Ratsinformationssystem products.
// The ordinal order is significant: equal discovery scores resolve to the
// lower ordinal, so discovery stays deterministic.
type RISProvider int

const (
	Regisafe RISProvider = iota
	SDNet
	SessionNet
	AllRIS
	KommuneAktiv
	Somacos
	ProviderUnknown
)

var providerNames = map[RISProvider]string{
	Regisafe:        "regisafe",
	SDNet:           "sd_net",
	SessionNet:      "sessionnet",
	AllRIS:          "allris",
	KommuneAktiv:    "kommune_aktiv",
	Somacos:         "somacos",
	ProviderUnknown: "unknown",
}

func (p RISProvider) String() string {
	if name, ok := providerNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParseProvider maps a stored provider name back to its enum value.
func ParseProvider(name string) RISProvider {
	for p, n := range providerNames {
		if n == name {
			return p
		}
	}
	return ProviderUnknown
}
