// Package registry is the static knowledge base describing how each known
// RIS product announces itself: URL paths its installations live under and
// HTML fragments that only its generated pages contain.
package registry

import (
	"fmt"

	"RISScanner/internal/domain"
)

// PathPattern is one candidate URL path with a weight proportional to its
// specificity: a product-specific path is stronger evidence than a generic
// naming convention shared across products.
type PathPattern struct {
	Path   string
	Weight float64
}

// Signature holds everything discovery needs to recognize one provider.
// Priority orders path probing across providers; higher probes first.
type Signature struct {
	PathPatterns []PathPattern
	HTMLMarkers  []string
	Priority     int
}

const (
	// weightSpecific is assigned to paths unique to one product.
	weightSpecific = 0.30
	// weightGeneric is assigned to naming conventions several products share.
	weightGeneric = 0.15
)

var signatures = map[domain.RISProvider]Signature{
	domain.Regisafe: {
		PathPatterns: []PathPattern{
			{Path: "/ratsinfo", Weight: weightSpecific},
			{Path: "/buergerinfo", Weight: weightSpecific},
			{Path: "/sitzungsdienst", Weight: weightGeneric},
		},
		HTMLMarkers: []string{"regisafe", "buergerinfo"},
		Priority:    40,
	},
	domain.SDNet: {
		PathPatterns: []PathPattern{
			{Path: "/sdnetrim", Weight: weightSpecific},
			{Path: "/sitzungsdienst", Weight: weightGeneric},
		},
		HTMLMarkers: []string{"sitzungsdienst.net", "sd-net", "sdnetrim"},
		Priority:    35,
	},
	domain.SessionNet: {
		PathPatterns: []PathPattern{
			{Path: "/bi/si010_r.asp", Weight: weightSpecific},
			{Path: "/sessionnet", Weight: weightSpecific},
			{Path: "/ris", Weight: weightGeneric},
		},
		HTMLMarkers: []string{"sessionnet", "session-net"},
		Priority:    45,
	},
	domain.AllRIS: {
		PathPatterns: []PathPattern{
			{Path: "/allris.net", Weight: weightSpecific},
			{Path: "/bi/si010.asp", Weight: weightSpecific},
			{Path: "/ris", Weight: weightGeneric},
		},
		HTMLMarkers: []string{"allris"},
		Priority:    45,
	},
	domain.KommuneAktiv: {
		PathPatterns: []PathPattern{
			{Path: "/kommune-aktiv", Weight: weightSpecific},
			{Path: "/ratsinformation", Weight: weightGeneric},
		},
		HTMLMarkers: []string{"kommune-aktiv", "kommuneaktiv"},
		Priority:    30,
	},
	domain.Somacos: {
		PathPatterns: []PathPattern{
			{Path: "/session/bi/si0057.php", Weight: weightSpecific},
			{Path: "/sitzungen", Weight: weightGeneric},
		},
		HTMLMarkers: []string{"somacos"},
		Priority:    35,
	},
}

// SignaturesFor returns the static signature table for a supported provider.
// Looking up ProviderUnknown or an unregistered value is a programming
// error, not a runtime condition.
func SignaturesFor(p domain.RISProvider) Signature {
	sig, ok := signatures[p]
	if !ok {
		panic(fmt.Sprintf("registry: no signatures registered for provider %q", p))
	}
	return sig
}

// AllProviders lists every supported provider in ascending ordinal order,
// excluding ProviderUnknown.
func AllProviders() []domain.RISProvider {
	return []domain.RISProvider{
		domain.Regisafe,
		domain.SDNet,
		domain.SessionNet,
		domain.AllRIS,
		domain.KommuneAktiv,
		domain.Somacos,
	}
}
