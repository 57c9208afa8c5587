package clock

import "time"

// IST is the business timezone. A fixed offset avoids a tzdata dependency;
// India has no daylight saving.
var IST = time.FixedZone("IST", 5*3600+30*60)

// NowIST returns the current instant in the business timezone.
func NowIST() time.Time {
	return time.Now().In(IST)
}

// StartOfDayIST returns midnight of t's calendar day in the business
// timezone.
func StartOfDayIST(t time.Time) time.Time {
	t = t.In(IST)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, IST)
}
