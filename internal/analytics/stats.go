package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"weightduel/internal/domain"
)

// RatePolicy selects which entries the trailing rate is computed over.
type RatePolicy string

const (
	// RateByEntries uses the last RateWindow entries, regardless of gaps.
	RateByEntries RatePolicy = "entries"
	// RateByCalendar uses entries dated within the last RateWindow days.
	RateByCalendar RatePolicy = "calendar"
)

// RateWindow is the trailing window size for both policies.
const RateWindow = 14

// ParseRatePolicy parses a policy name; empty means RateByEntries.
func ParseRatePolicy(s string) (RatePolicy, error) {
	switch p := RatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return RateByEntries, nil
	case RateByEntries, RateByCalendar:
		return p, nil
	default:
		return "", fmt.Errorf("unknown rate policy %q", s)
	}
}

// Stats are the derived statistics for one user's full series.
type Stats struct {
	Entries   int   `json:"entries"`
	Start     Value `json:"start"`
	Latest    Value `json:"latest"`
	NetChange Value `json:"netChange"`
	PctChange Value `json:"pctChange"`
	Rate      Value `json:"rate"`
	Streak    int   `json:"streak"`
}

// NoData is returned for an empty series.
var NoData = Stats{}

// Rendered is the display form of Stats.
type Rendered struct {
	Start     string `json:"start"`
	Latest    string `json:"latest"`
	NetChange string `json:"netChange"`
	PctChange string `json:"pctChange"`
	Rate      string `json:"rate"`
	Streak    string `json:"streak"`
}

// Render formats the statistics. Undefined values render as Placeholder.
func (s Stats) Render() Rendered {
	return Rendered{
		Start:     s.Start.Format("%.1f lbs"),
		Latest:    s.Latest.Format("%.1f lbs"),
		NetChange: s.NetChange.Format("%+.1f lbs"),
		PctChange: s.PctChange.Format("%+.1f%%"),
		Rate:      s.Rate.Format("%+.2f lbs/week"),
		Streak:    fmt.Sprintf("%d days", s.Streak),
	}
}

// point is an entry with its date resolved to a day number.
type point struct {
	day    int
	weight float64
}

// Compute derives Stats from one user's entries in any order. today is only
// consulted by RateByCalendar. Entries whose date does not parse are ignored.
func Compute(entries []domain.Entry, today time.Time, policy RatePolicy) Stats {
	series := toSeries(entries)
	if len(series) == 0 {
		return NoData
	}

	first, last := series[0], series[len(series)-1]
	net := last.weight - first.weight

	return Stats{
		Entries:   len(series),
		Start:     Of(first.weight),
		Latest:    Of(last.weight),
		NetChange: Of(net),
		PctChange: Of(round(net/first.weight*100, 2)),
		Rate:      trailingRate(series, today, policy),
		Streak:    streak(series),
	}
}

func toSeries(entries []domain.Entry) []point {
	series := make([]point, 0, len(entries))
	for _, e := range entries {
		d, err := e.Day()
		if err != nil {
			continue
		}
		series = append(series, point{day: dayNumber(d), weight: e.Weight})
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].day < series[j].day
	})
	return series
}

func trailingRate(series []point, today time.Time, policy RatePolicy) Value {
	last := series[len(series)-1]

	var from point
	switch policy {
	case RateByCalendar:
		cutoff := dayNumber(civilDay(today)) - RateWindow
		i := sort.Search(len(series), func(i int) bool { return series[i].day >= cutoff })
		if i == len(series) {
			return Undefined
		}
		from = series[i]
	default:
		if len(series) < RateWindow {
			return Undefined
		}
		from = series[len(series)-RateWindow]
	}

	d := last.day - from.day
	if d <= 0 {
		return Of(0)
	}
	return Of(round((last.weight-from.weight)*7/float64(d), 2))
}

// streak counts the most recent run of entries whose dates are exactly one
// day apart, ending at the last entry.
func streak(series []point) int {
	n := 1
	for i := len(series) - 1; i > 0; i-- {
		if series[i].day-series[i-1].day != 1 {
			break
		}
		n++
	}
	return n
}

// dayNumber counts days since the Unix epoch for a UTC midnight date.
func dayNumber(t time.Time) int {
	return int(t.Unix() / 86400)
}

// civilDay returns the calendar day of t, in t's location, as UTC midnight.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
