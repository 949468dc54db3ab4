package dates

import (
	"strings"
	"time"
)

// relativeOffsets maps day keywords accepted on the command line to their
// offset from today.
var relativeOffsets = map[string]int{
	"yesterday": -1,
	"today":     0,
	"tomorrow":  1,
}

// RelativeDay resolves a day keyword against now's calendar day. Keywords are
// case-insensitive and may carry surrounding whitespace.
func RelativeDay(keyword string, now time.Time) (time.Time, bool) {
	offset, ok := relativeOffsets[strings.ToLower(strings.TrimSpace(keyword))]
	if !ok {
		return time.Time{}, false
	}
	return AddDays(now, offset), true
}
