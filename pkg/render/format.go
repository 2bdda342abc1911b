package render

import (
	"time"

	"github.com/vonderheiden/bannerforge/pkg/banner"
)

// FormatDate turns an ISO date into the display form "Jan 2, 2006".
// Unparseable input is shown as-is.
func FormatDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("Jan 2, 2006")
}

// FormatClock turns a 24h "15:04" value into a 12-hour display form,
// with the timezone label appended when requested. Unparseable input
// is shown as-is.
func FormatClock(clock string, tz banner.Timezone, showTZ bool) string {
	out := clock
	if t, err := time.Parse("15:04", clock); err == nil {
		out = t.Format("3:04 PM")
	}
	if showTZ && tz != "" {
		out += " " + string(tz)
	}
	return out
}
