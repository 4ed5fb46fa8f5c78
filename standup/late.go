package standup

import (
	"time"

	"SupsBrief/utils"
)

// IsLate reports whether at falls on or after the deadline wall-clock time
// of its own local day in timezone. An unparseable deadline is never late;
// an unknown timezone is treated as UTC.
func IsLate(at time.Time, deadline, timezone string) bool {
	deadlineSecs, err := utils.ParseClock(deadline)
	if err != nil {
		return false
	}
	loc, _ := utils.LoadLocation(timezone)
	local := at.In(loc)
	secs := local.Hour()*3600 + local.Minute()*60 + local.Second()
	return secs >= deadlineSecs
}
