// Package schedule turns MIS remarks text into due times and places them
// inside the upcoming or missed window.
package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	remarksPrefix = "Call At "
	remarksLayout = "January 2 2006, 3:04 PM"
	zoneName      = "Asia/Kolkata"
)

var (
	ordinalExpr  = regexp.MustCompile(`(?i)(\d+)(st|nd|rd|th)`)
	meridiemExpr = regexp.MustCompile(`(?i)(am|pm)$`)
	clockExpr    = regexp.MustCompile(`, (\d{1,2}):(\d{1,2}) (AM|PM)$`)
)

// Location is the fixed zone every remarks timestamp is written in.
var Location = loadLocation()

func loadLocation() *time.Location {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

// Parse extracts the due time from remarks such as
// "Call At July 21st 2025, 3:45 PM". The boolean is false when the text
// does not follow that format.
func Parse(remarks string) (time.Time, bool) {
	text := strings.TrimSpace(strings.ReplaceAll(remarks, remarksPrefix, ""))
	text = ordinalExpr.ReplaceAllString(text, "$1")
	text = strings.Join(strings.Fields(text), " ")
	text = meridiemExpr.ReplaceAllStringFunc(text, strings.ToUpper)
	text, ok := normalizeClock(text)
	if !ok {
		return time.Time{}, false
	}

	due, err := time.ParseInLocation(remarksLayout, text, Location)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

// normalizeClock enforces a 12-hour clock (hour 1 to 12) and pads a
// single-digit minute, which the layout would otherwise reject.
func normalizeClock(text string) (string, bool) {
	m := clockExpr.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return "", false
	}
	minute := m[2]
	if len(minute) == 1 {
		minute = "0" + minute
	}
	return strings.TrimSuffix(text, m[0]) + ", " + m[1] + ":" + minute + " " + m[3], true
}
