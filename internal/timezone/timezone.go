package timezone

import "time"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolves the configured zone. Empty or unknown names fall
// back to the process local zone.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// Clock returns a now function pinned to tz, for injection into use cases.
func Clock(tz string) func() time.Time {
	loc := Location(tz)
	return func() time.Time {
		return time.Now().In(loc)
	}
}
