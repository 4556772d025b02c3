package discovery

import (
	"strings"

	"RISScanner/internal/domain"
)

// hostPatterns are dedicated hostnames RIS installations commonly live on,
// separate from the municipality's main website. {domain} expands to
// "<cleaned name>.de", {name} to the cleaned name alone.
var hostPatterns = []string{
	"ratsinfo.{domain}",
	"ris.{domain}",
	"sitzungsdienst.{domain}",
	"ratsinformation.{domain}",
	"buergerinfo.{domain}",
	"sitzungen.{domain}",
	"gemeinderat.{domain}",
	"stadtrat.{domain}",
	"{name}.ratsinfo.de",
	"{name}.ris.de",
	"sitzungsdienst-{name}.de",
	"ratsinfo-{name}.de",
}

// levelWords are administrative level prefixes and suffixes stripped from
// municipality names before hostname generation: "Stadt Musterstadt" and
// "Musterstadt Stadt" both register domains as plain "musterstadt".
var levelWords = []string{
	domain.LevelStadt,
	domain.LevelGemeinde,
	domain.LevelAmt,
	domain.LevelSamtgemeinde,
	domain.LevelVerbandsgemeinde,
}

var umlautReplacer = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")

// hostCandidates expands every host pattern for a municipality into probe
// URLs, in pattern order. The official name carries the level word that
// cleanNameForURL strips, so it is the better input when present.
func hostCandidates(m domain.Municipality) []string {
	raw := m.OfficialName
	if raw == "" {
		raw = m.Name
	}
	name := cleanNameForURL(raw)
	if name == "" {
		return nil
	}
	domainBase := name + ".de"

	urls := make([]string, 0, len(hostPatterns))
	for _, pattern := range hostPatterns {
		host := strings.ReplaceAll(pattern, "{domain}", domainBase)
		host = strings.ReplaceAll(host, "{name}", name)
		urls = append(urls, "https://"+host)
	}
	return urls
}

// cleanNameForURL normalizes a municipality name into the lowercase ASCII
// form German hostnames use: administrative level words stripped, umlauts
// transliterated, everything else collapsed to single hyphens.
func cleanNameForURL(name string) string {
	name = strings.TrimSpace(name)

	lower := strings.ToLower(name)
	for _, word := range levelWords {
		w := strings.ToLower(word)
		if strings.HasPrefix(lower, w+" ") {
			name = strings.TrimSpace(name[len(w)+1:])
			break
		}
		if strings.HasSuffix(lower, " "+w) {
			name = strings.TrimSpace(name[:len(name)-len(w)-1])
			break
		}
	}

	name = umlautReplacer.Replace(strings.ToLower(name))

	var b strings.Builder
	hyphen := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		default:
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
