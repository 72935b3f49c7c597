package booking

import "time"

// TruncateToMinute drops seconds and finer from a timestamp.  All event and
// reservation bounds are stored at minute resolution.
func TruncateToMinute(t time.Time) time.Time {
    return t.Truncate(time.Minute)
}

// Overlaps reports whether the half-open intervals [aFrom, aTo) and
// [bFrom, bTo) intersect.  Touching endpoints do not count: a reservation
// ending at noon and another starting at noon coexist.
func Overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
    return aFrom.Before(bTo) && bFrom.Before(aTo)
}

// Interval is a half-open time range tagged with the identity of the row it
// came from.  The ID lets HasOverlap exclude a record's own prior state
// during updates by identity rather than by value.
type Interval struct {
    ID   uint64
    From time.Time
    To   time.Time
}

// HasOverlap reports whether the candidate interval intersects any sibling.
// Siblings sharing the candidate's ID are skipped so that updating a record
// never collides with itself.
func HasOverlap(candidate Interval, siblings []Interval) bool {
    for _, s := range siblings {
        if s.ID != 0 && s.ID == candidate.ID {
            continue
        }
        if Overlaps(candidate.From, candidate.To, s.From, s.To) {
            return true
        }
    }
    return false
}

// DurationDays returns the whole number of days between from and to,
// truncating partial days the way the reservation rules expect.
func DurationDays(from, to time.Time) int {
    if !from.Before(to) {
        return 0
    }
    return int(to.Sub(from) / (24 * time.Hour))
}

// AllowedDurationsDays lists the only reservation lengths accepted: a day,
// a week or a month.
var AllowedDurationsDays = []int{1, 7, 30}

// AllowedDuration reports whether the interval [from, to) has one of the
// permitted lengths.
func AllowedDuration(from, to time.Time) bool {
    d := to.Sub(from)
    for _, days := range AllowedDurationsDays {
        if d == time.Duration(days)*24*time.Hour {
            return true
        }
    }
    return false
}
