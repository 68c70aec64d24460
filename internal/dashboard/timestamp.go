package dashboard

import (
	"errors"
	"strings"
	"time"
)

// turnTimestampLayout is the locale format the bot writes into message
// documents: "dd/mm/yyyy, HH.MM.SS" in server local time.
const turnTimestampLayout = "02/01/2006, 15.04.05"

var errEmptyTimestamp = errors.New("empty timestamp")

// ParseTurnTimestamp parses a turn timestamp in server local time. Malformed
// input returns an error; callers exclude the record from date-bucketed
// output instead of failing the whole aggregation.
func ParseTurnTimestamp(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, errEmptyTimestamp
	}
	return time.ParseInLocation(turnTimestampLayout, s, time.Local)
}

// FormatTurnTimestamp renders a time the way stored turns expect it.
func FormatTurnTimestamp(t time.Time) string {
	return t.In(time.Local).Format(turnTimestampLayout)
}

var phoneReplacer = strings.NewReplacer("@c.us", "", "+", "", "-", "")

// NormalizePhone strips the messaging domain suffix and punctuation from a
// raw recipient identifier, yielding the join key against contact numbers.
// Recomputed on every query, never persisted.
func NormalizePhone(raw string) string {
	return phoneReplacer.Replace(raw)
}

// timeWindow is a closed range of seconds since local midnight.
type timeWindow struct {
	from int
	to   int
}

var (
	morningWindow   = timeWindow{from: 0, to: 11*3600 + 59*60 + 59}
	afternoonWindow = timeWindow{from: 12 * 3600, to: 15*3600 + 59*60 + 59}
	eveningWindow   = timeWindow{from: 16 * 3600, to: 18*3600 + 59*60 + 59}
)

func (w timeWindow) contains(t time.Time) bool {
	s := t.Hour()*3600 + t.Minute()*60 + t.Second()
	return s >= w.from && s <= w.to
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	return dateOf(a).Equal(dateOf(b))
}

// withinLastDays reports whether ts falls on a calendar date in
// [now - days, now], inclusive on both ends and blind to time of day.
func withinLastDays(ts, now time.Time, days int) bool {
	date := dateOf(ts)
	upper := dateOf(now)
	lower := upper.AddDate(0, 0, -days)
	return !date.Before(lower) && !date.After(upper)
}
