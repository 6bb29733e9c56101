package analytics

import (
	"fmt"
	"strings"
	"time"

	"weightduel/internal/domain"
)

// Window is a named trailing display range.
type Window string

const (
	WindowWeek Window = "Week"
	Window30D  Window = "30D"
	Window90D  Window = "90D"
	WindowYear Window = "Year"
	WindowAll  Window = "All"
)

var windowDays = map[Window]int{
	WindowWeek: 7,
	Window30D:  30,
	Window90D:  90,
	WindowYear: 365,
}

// Windows lists the supported ranges in display order.
var Windows = []Window{WindowWeek, Window30D, Window90D, WindowYear, WindowAll}

// ParseWindow parses a window name case-insensitively. Empty means WindowAll.
func ParseWindow(s string) (Window, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return WindowAll, nil
	}
	for _, w := range Windows {
		if strings.EqualFold(s, string(w)) {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown range %q", s)
}

// Days returns the window length; ok is false for WindowAll.
func (w Window) Days() (days int, ok bool) {
	days, ok = windowDays[w]
	return days, ok
}

// Cutoff returns the earliest canonical date kept by the window, relative to
// the calendar day of now. ok is false for WindowAll.
func (w Window) Cutoff(now time.Time) (string, bool) {
	days, ok := w.Days()
	if !ok {
		return "", false
	}
	return domain.FormatDay(civilDay(now).AddDate(0, 0, -days)), true
}

// Filter keeps entries dated on or after the window cutoff. It preserves
// order and never modifies the input.
func (w Window) Filter(entries []domain.Entry, now time.Time) []domain.Entry {
	cutoff, ok := w.Cutoff(now)
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if ok && e.Date < cutoff {
			continue
		}
		out = append(out, e)
	}
	return out
}
