package logging

import (
	"time"
)

// FormatISO8601 is the default timestamp format for rotating log lines.
const FormatISO8601 = "iso8601"

// FormatTimestamp formats t according to format. An empty format and
// FormatISO8601 both mean RFC3339; anything else is treated as a literal
// Go time layout.
func FormatTimestamp(t time.Time, format string) string {
	switch format {
	case FormatISO8601, "":
		return t.Format(time.RFC3339)
	default:
		return t.Format(format)
	}
}
