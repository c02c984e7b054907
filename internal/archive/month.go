package archive

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Month is a calendar month, the granularity of chess.com game archives.
// Months order lexicographically by (Year, Month).
type Month struct {
	Year  int
	Month int
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: int(t.Month())}
}

// ParseMonth parses "YYYY/MM", "YYYY-MM" or "YYYYMM".
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)

	var year, month string
	switch {
	case len(s) == 7 && (s[4] == '/' || s[4] == '-'):
		year, month = s[:4], s[5:]
	case len(s) == 6:
		year, month = s[:4], s[4:]
	default:
		return Month{}, fmt.Errorf("invalid month %q: want YYYY/MM", s)
	}

	y, err := strconv.Atoi(year)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: bad year", s)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: bad month", s)
	}
	mo := Month{Year: y, Month: m}
	if !mo.Valid() {
		return Month{}, fmt.Errorf("invalid month %q: month out of range", s)
	}
	return mo, nil
}

// Valid reports whether m has a month number in 1..12 and a positive year.
func (m Month) Valid() bool {
	return m.Year > 0 && m.Month >= 1 && m.Month <= 12
}

// Compare returns -1, 0 or +1 depending on whether m is before, equal to,
// or after o.
func (m Month) Compare(o Month) int {
	switch {
	case m.Year < o.Year:
		return -1
	case m.Year > o.Year:
		return 1
	case m.Month < o.Month:
		return -1
	case m.Month > o.Month:
		return 1
	}
	return 0
}

// Before reports whether m is strictly before o.
func (m Month) Before(o Month) bool { return m.Compare(o) < 0 }

// After reports whether m is strictly after o.
func (m Month) After(o Month) bool { return m.Compare(o) > 0 }

// Within reports whether start <= m <= end.
func (m Month) Within(start, end Month) bool {
	return m.Compare(start) >= 0 && m.Compare(end) <= 0
}

// String formats m as "YYYY/MM", matching chess.com archive URLs.
func (m Month) String() string {
	return fmt.Sprintf("%04d/%02d", m.Year, m.Month)
}

// Locator references one month's archive for one player.
type Locator struct {
	URL   string
	Month Month
}

// ParseLocator builds a Locator from an archive URL such as
// https://api.chess.com/pub/player/hikaru/games/2024/01.
func ParseLocator(rawURL string) (Locator, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Locator{}, fmt.Errorf("parsing archive url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Locator{}, fmt.Errorf("archive url %q is not absolute", rawURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return Locator{}, fmt.Errorf("archive url %q has no year/month suffix", rawURL)
	}
	m, err := ParseMonth(parts[len(parts)-2] + "/" + parts[len(parts)-1])
	if err != nil {
		return Locator{}, fmt.Errorf("archive url %q: %w", rawURL, err)
	}
	return Locator{URL: rawURL, Month: m}, nil
}

// String returns the month and URL of the locator.
func (l Locator) String() string {
	return l.Month.String() + " " + l.URL
}
