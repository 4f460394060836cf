// ABOUTME: Date parsing for API timestamps and the recent/older creation facet
// ABOUTME: Accepts the several layouts the backend emits

package resources

import (
	"strings"
	"time"
)

// RecentWindow is how far back a creation date counts as recent
const RecentWindow = 30 * 24 * time.Hour

// now is replaced in tests
var now = time.Now

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate accepts the date shapes the API is known to emit
func parseDate(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatDate renders a date as YYYY-MM-DD, or "-" when missing
func formatDate(s *string) string {
	t, ok := parseDate(s)
	if !ok {
		if s != nil && *s != "" {
			return *s
		}
		return "-"
	}
	return t.Format("2006-01-02")
}

// recency classifies a creation date. A missing date is never recent.
func recency(s *string) string {
	t, ok := parseDate(s)
	if ok && !t.Before(now().Add(-RecentWindow)) {
		return DateRecent
	}
	return DateOlder
}
