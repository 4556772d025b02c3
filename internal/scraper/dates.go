package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"RISScanner/internal/domain"
)

// Meeting dates arrive in several formats depending on the provider. The
// matchers below are tried in order; the first hit wins. A date matching
// none of them keeps Parsed=false with the raw text retained.

var germanMonths = map[string]time.Month{
	"januar":    time.January,
	"februar":   time.February,
	"märz":      time.March,
	"april":     time.April,
	"mai":       time.May,
	"juni":      time.June,
	"juli":      time.July,
	"august":    time.August,
	"september": time.September,
	"oktober":   time.October,
	"november":  time.November,
	"dezember":  time.December,
}

var (
	// "Mittwoch, 5. März 2025" with the weekday optional.
	germanLongExpr = regexp.MustCompile(`(?i)(?:montag|dienstag|mittwoch|donnerstag|freitag|samstag|sonntag)?,?\s*(\d{1,2})\.\s*(januar|februar|märz|april|mai|juni|juli|august|september|oktober|november|dezember)\s+(\d{4})`)
	// "05.03.2025", also single-digit day/month.
	numericExpr = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	// "2025-03-05".
	isoExpr = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
)

// ParseMeetingDate runs the format chain over raw text.
func ParseMeetingDate(raw string) domain.MeetingDate {
	raw = strings.TrimSpace(raw)
	result := domain.MeetingDate{Raw: raw}

	if m := germanLongExpr.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		month := germanMonths[strings.ToLower(m[2])]
		if t, ok := makeDate(year, month, day); ok {
			result.Time = t
			result.Parsed = true
			return result
		}
	}

	if m := numericExpr.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		monthNum, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if t, ok := makeDate(year, time.Month(monthNum), day); ok {
			result.Time = t
			result.Parsed = true
			return result
		}
	}

	if m := isoExpr.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[1])
		monthNum, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if t, ok := makeDate(year, time.Month(monthNum), day); ok {
			result.Time = t
			result.Parsed = true
			return result
		}
	}

	return result
}

// makeDate rejects values that time.Date would silently normalize, like a
// 32nd day or a 13th month.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 || year < 1900 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// findDateText scans free text for the first substring any matcher accepts,
// for providers that do not put the date in a dedicated cell.
func findDateText(text string) string {
	for _, expr := range []*regexp.Regexp{germanLongExpr, numericExpr, isoExpr} {
		if m := expr.FindString(text); m != "" {
			return m
		}
	}
	return ""
}
