package ticketcode

import (
	"fmt"
	"time"
)

const prefix = "TCK"

// DayKey is the calendar day of t in t's own location, as YYYYMMDD.
func DayKey(t time.Time) string {
	return t.Format("20060102")
}

// Number formats a ticket number. seq is padded to three digits and
// widens past 999.
func Number(day string, seq int64) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, day, seq)
}
