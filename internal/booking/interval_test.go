package booking

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func day(d int) time.Time {
    return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlapsIsSymmetric(t *testing.T) {
    cases := []struct {
        name                   string
        aFrom, aTo, bFrom, bTo time.Time
        want                   bool
    }{
        {"partial overlap", day(1), day(3), day(2), day(4), true},
        {"contained", day(1), day(10), day(3), day(4), true},
        {"identical", day(1), day(2), day(1), day(2), true},
        {"disjoint", day(1), day(2), day(5), day(6), false},
        {"touching endpoints", day(1), day(2), day(2), day(3), false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, Overlaps(tc.aFrom, tc.aTo, tc.bFrom, tc.bTo))
            assert.Equal(t, tc.want, Overlaps(tc.bFrom, tc.bTo, tc.aFrom, tc.aTo), "overlap must be symmetric")
        })
    }
}

func TestHasOverlapExcludesSelfByIdentity(t *testing.T) {
    cand := Interval{ID: 7, From: day(1), To: day(3)}
    siblings := []Interval{
        {ID: 7, From: day(1), To: day(3)}, // the candidate's own stored state
    }
    assert.False(t, HasOverlap(cand, siblings), "a record never overlaps itself on update")

    siblings = append(siblings, Interval{ID: 8, From: day(2), To: day(4)})
    assert.True(t, HasOverlap(cand, siblings))
}

func TestHasOverlapDoesNotExcludeByValue(t *testing.T) {
    // A different record with identical bounds still counts.
    cand := Interval{ID: 0, From: day(1), To: day(2)}
    siblings := []Interval{{ID: 3, From: day(1), To: day(2)}}
    assert.True(t, HasOverlap(cand, siblings))
}

func TestAllowedDuration(t *testing.T) {
    assert.True(t, AllowedDuration(day(1), day(2)))
    assert.True(t, AllowedDuration(day(1), day(8)))
    assert.True(t, AllowedDuration(day(1), time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
    assert.False(t, AllowedDuration(day(1), day(4)))
    assert.False(t, AllowedDuration(day(1), day(1).Add(12*time.Hour)))
}

func TestDurationDays(t *testing.T) {
    require.Equal(t, 1, DurationDays(day(1), day(2)))
    require.Equal(t, 7, DurationDays(day(1), day(8)))
    require.Equal(t, 0, DurationDays(day(2), day(1)))
}

func TestTruncateToMinute(t *testing.T) {
    ts := time.Date(2025, 6, 1, 10, 30, 59, 123456, time.UTC)
    assert.Equal(t, time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC), TruncateToMinute(ts))
}
