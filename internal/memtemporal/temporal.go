// Package memtemporal parses natural-language time references ("yesterday",
// "last week", "3 days ago", "in March") into concrete date ranges, anchored
// to a caller-supplied reference time.
package memtemporal

import (
	"regexp"
	"strings"
	"time"
)

// Range is an inclusive day range, both ends normalized to midnight.
type Range struct {
	Start time.Time
	End   time.Time
}

// Match is a successful temporal parse: the range it resolved to, the
// substring of the query that triggered it, and whether it came from a
// relative phrase ("yesterday", "3 days ago") or an absolute one (a literal
// date or named month).
type Match struct {
	Range    Range
	Text     string
	Relative bool
}

var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "a": 1, "an": 1, "couple": 2,
}

func wordToNum(word string) int {
	if n, ok := wordNumbers[strings.ToLower(word)]; ok {
		return n
	}
	return 1
}

// handler builds a Range from a regexp match (full match plus submatches)
// against a reference time. It returns false if the match does not resolve
// to a valid date (e.g. "2/30").
type handler func(groups []string, ref time.Time) (time.Time, time.Time, bool)

type pattern struct {
	re       *regexp.Regexp
	relative bool
	fn       handler
}

// patterns is tried in order, first match wins — deliberately the same
// most-specific-first ordering as the source it was ported from, since later
// patterns (bare month names) would otherwise swallow matches meant for an
// earlier, more specific pattern ("last month" vs "month").
var patterns []pattern

func mustPattern(expr string, relative bool, fn handler) pattern {
	return pattern{re: regexp.MustCompile(expr), relative: relative, fn: fn}
}

func init() {
	numWord := `(one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|a|an|couple)`

	patterns = []pattern{
		mustPattern(`\byesterday\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			d := ref.AddDate(0, 0, -1)
			return d, d, true
		}),
		mustPattern(`\btoday\b`, true, sameDay),
		mustPattern(`\bthis morning\b`, true, sameDay),
		mustPattern(`\bthis afternoon\b`, true, sameDay),
		mustPattern(`\bthis evening\b`, true, sameDay),
		mustPattern(`\btonight\b`, true, sameDay),

		mustPattern(`\b(\d+)\s*days?\s*ago\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			n := atoiOr(g[1], -1)
			if n < 0 {
				return time.Time{}, time.Time{}, false
			}
			d := ref.AddDate(0, 0, -n)
			return d, d, true
		}),
		mustPattern(`\b`+numWord+`\s*days?\s*ago\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			d := ref.AddDate(0, 0, -wordToNum(g[1]))
			return d, d, true
		}),
		mustPattern(`\ba\s*few\s*days?\s*ago\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			return ref.AddDate(0, 0, -3), ref.AddDate(0, 0, -2), true
		}),
		mustPattern(`\bthe\s*other\s*day\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			return ref.AddDate(0, 0, -3), ref.AddDate(0, 0, -1), true
		}),

		mustPattern(`\blast\s*week\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			wd := isoWeekday(ref)
			return ref.AddDate(0, 0, -(wd + 7)), ref.AddDate(0, 0, -(wd + 1)), true
		}),
		mustPattern(`\bthis\s*week\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			wd := isoWeekday(ref)
			return ref.AddDate(0, 0, -wd), ref, true
		}),
		mustPattern(`\b(\d+)\s*weeks?\s*ago\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			n := atoiOr(g[1], -1)
			if n < 0 {
				return time.Time{}, time.Time{}, false
			}
			return ref.AddDate(0, 0, -7*(n+1)), ref.AddDate(0, 0, -7*(n-1)), true
		}),
		mustPattern(`\b`+numWord+`\s*weeks?\s*ago\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			n := wordToNum(g[1])
			return ref.AddDate(0, 0, -7*(n+1)), ref.AddDate(0, 0, -7*(n-1)), true
		}),
		mustPattern(`\ba\s*week\s*ago\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			d := ref.AddDate(0, 0, -7)
			return d, d, true
		}),

		mustPattern(`\blast\s*month\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			s, e := lastMonth(ref)
			return s, e, true
		}),
		mustPattern(`\bthis\s*month\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			return firstOfMonth(ref), ref, true
		}),
		mustPattern(`\b(\d+)\s*months?\s*ago\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			n := atoiOr(g[1], -1)
			if n < 0 {
				return time.Time{}, time.Time{}, false
			}
			s, e := monthsAgo(ref, n)
			return s, e, true
		}),
		mustPattern(`\b`+numWord+`\s*months?\s*ago\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			s, e := monthsAgo(ref, wordToNum(g[1]))
			return s, e, true
		}),

		weekdayPattern(`\bon\s*monday\b`, time.Monday),
		weekdayPattern(`\bon\s*tuesday\b`, time.Tuesday),
		weekdayPattern(`\bon\s*wednesday\b`, time.Wednesday),
		weekdayPattern(`\bon\s*thursday\b`, time.Thursday),
		weekdayPattern(`\bon\s*friday\b`, time.Friday),
		weekdayPattern(`\bon\s*saturday\b`, time.Saturday),
		weekdayPattern(`\bon\s*sunday\b`, time.Sunday),
		weekdayPattern(`\blast\s*monday\b`, time.Monday),
		weekdayPattern(`\blast\s*tuesday\b`, time.Tuesday),
		weekdayPattern(`\blast\s*wednesday\b`, time.Wednesday),
		weekdayPattern(`\blast\s*thursday\b`, time.Thursday),
		weekdayPattern(`\blast\s*friday\b`, time.Friday),
		weekdayPattern(`\blast\s*saturday\b`, time.Saturday),
		weekdayPattern(`\blast\s*sunday\b`, time.Sunday),

		mustPattern(`\blast\s*(\d+)\s*days?\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			n := atoiOr(g[1], -1)
			if n < 0 {
				return time.Time{}, time.Time{}, false
			}
			return ref.AddDate(0, 0, -n), ref, true
		}),
		mustPattern(`\blast\s*(one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|couple|few)\s*days?\b`, true,
			func(g []string, ref time.Time) (time.Time, time.Time, bool) {
				n := 3
				if g[1] != "few" {
					n = wordToNum(g[1])
				}
				return ref.AddDate(0, 0, -n), ref, true
			}),
		mustPattern(`\bpast\s*(\d+)\s*days?\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			n := atoiOr(g[1], -1)
			if n < 0 {
				return time.Time{}, time.Time{}, false
			}
			return ref.AddDate(0, 0, -n), ref, true
		}),
		mustPattern(`\bpast\s*(one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|couple|few)\s*days?\b`, true,
			func(g []string, ref time.Time) (time.Time, time.Time, bool) {
				n := 3
				if g[1] != "few" {
					n = wordToNum(g[1])
				}
				return ref.AddDate(0, 0, -n), ref, true
			}),

		mustPattern(`\brecently\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			return ref.AddDate(0, 0, -7), ref, true
		}),
		mustPattern(`\bearlier\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			return ref.AddDate(0, 0, -3), ref, true
		}),
		mustPattern(`\bpreviously\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			return ref.AddDate(0, 0, -14), ref.AddDate(0, 0, -1), true
		}),
		mustPattern(`\bbefore\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			return ref.AddDate(0, 0, -30), ref.AddDate(0, 0, -1), true
		}),

		mustPattern(`\b(beginning|start)\s*of\s*(the\s*)?week\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			d := ref.AddDate(0, 0, -isoWeekday(ref))
			return d, d, true
		}),
		mustPattern(`\b(beginning|start)\s*of\s*(the\s*)?month\b`, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			d := firstOfMonth(ref)
			return d, d, true
		}),

		mustPattern(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`, false, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			y, mo, d := atoiOr(g[1], 0), atoiOr(g[2], 0), atoiOr(g[3], 0)
			t, ok := validDate(y, mo, d)
			if !ok {
				return time.Time{}, time.Time{}, false
			}
			return t, t, true
		}),
		mustPattern(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})\b`, false, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			mo, d, y := atoiOr(g[1], 0), atoiOr(g[2], 0), atoiOr(g[3], 0)
			if y < 100 {
				if y < 50 {
					y += 2000
				} else {
					y += 1900
				}
			}
			t, ok := validDate(y, mo, d)
			if !ok {
				return time.Time{}, time.Time{}, false
			}
			return t, t, true
		}),
		mustPattern(`\b(\d{1,2})/(\d{1,2})\b`, false, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
			mo, d := atoiOr(g[1], 0), atoiOr(g[2], 0)
			t, ok := validDate(ref.Year(), mo, d)
			if !ok {
				return time.Time{}, time.Time{}, false
			}
			if t.After(midnight(ref)) {
				t, ok = validDate(ref.Year()-1, mo, d)
				if !ok {
					return time.Time{}, time.Time{}, false
				}
			}
			return t, t, true
		}),

		monthPattern(`\b(in\s*)?january\b`, time.January),
		monthPattern(`\b(in\s*)?february\b`, time.February),
		monthPattern(`\b(in\s*)?march\b`, time.March),
		monthPattern(`\b(in\s*)?april\b`, time.April),
		monthPattern(`\b(in\s*)?may\b`, time.May),
		monthPattern(`\b(in\s*)?june\b`, time.June),
		monthPattern(`\b(in\s*)?july\b`, time.July),
		monthPattern(`\b(in\s*)?august\b`, time.August),
		monthPattern(`\b(in\s*)?september\b`, time.September),
		monthPattern(`\b(in\s*)?october\b`, time.October),
		monthPattern(`\b(in\s*)?november\b`, time.November),
		monthPattern(`\b(in\s*)?december\b`, time.December),

		monthPattern(`\b(in\s*)?jan\b`, time.January),
		monthPattern(`\b(in\s*)?feb\b`, time.February),
		monthPattern(`\b(in\s*)?mar\b`, time.March),
		monthPattern(`\b(in\s*)?apr\b`, time.April),
		monthPattern(`\b(in\s*)?jun\b`, time.June),
		monthPattern(`\b(in\s*)?jul\b`, time.July),
		monthPattern(`\b(in\s*)?aug\b`, time.August),
		monthPattern(`\b(in\s*)?sep\b`, time.September),
		monthPattern(`\b(in\s*)?sept\b`, time.September),
		monthPattern(`\b(in\s*)?oct\b`, time.October),
		monthPattern(`\b(in\s*)?nov\b`, time.November),
		monthPattern(`\b(in\s*)?dec\b`, time.December),
	}
}

func weekdayPattern(expr string, wd time.Weekday) pattern {
	return mustPattern(expr, true, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
		d := lastWeekday(ref, wd)
		return d, d, true
	})
}

func monthPattern(expr string, month time.Month) pattern {
	return mustPattern(expr, false, func(g []string, ref time.Time) (time.Time, time.Time, bool) {
		s, e := monthRange(ref, month)
		return s, e, true
	})
}

func sameDay(g []string, ref time.Time) (time.Time, time.Time, bool) {
	d := midnight(ref)
	return d, d, true
}

// Parse scans query for the first recognized temporal phrase, trying
// patterns in the fixed order they were registered (most specific first),
// and returns the resulting day range. It reports false if nothing matched.
func Parse(query string, ref time.Time) (Match, bool) {
	lower := strings.ToLower(query)
	for _, p := range patterns {
		loc := p.re.FindStringSubmatchIndex(lower)
		if loc == nil {
			continue
		}
		groups := submatches(lower, loc)
		start, end, ok := p.fn(groups, ref)
		if !ok {
			continue
		}
		return Match{
			Range:    Range{Start: midnight(start), End: midnight(end)},
			Text:     groups[0],
			Relative: p.relative,
		}, true
	}
	return Match{}, false
}

func submatches(s string, loc []int) []string {
	out := make([]string, len(loc)/2)
	for i := range out {
		lo, hi := loc[2*i], loc[2*i+1]
		if lo < 0 {
			continue
		}
		out[i] = s[lo:hi]
	}
	return out
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return fallback
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// isoWeekday returns Monday=0 .. Sunday=6, matching Python's
// datetime.weekday().
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	return (wd + 6) % 7
}

func lastWeekday(ref time.Time, wd time.Weekday) time.Time {
	daysAgo := (isoWeekday(ref) - isoWeekdayOf(wd) + 7) % 7
	if daysAgo == 0 {
		daysAgo = 7
	}
	return midnight(ref.AddDate(0, 0, -daysAgo))
}

func isoWeekdayOf(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func firstOfMonth(ref time.Time) time.Time {
	y, m, _ := ref.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, ref.Location())
}

func lastMonth(ref time.Time) (time.Time, time.Time) {
	firstThis := firstOfMonth(ref)
	lastPrev := firstThis.AddDate(0, 0, -1)
	return firstOfMonth(lastPrev), midnight(lastPrev)
}

func monthsAgo(ref time.Time, months int) (time.Time, time.Time) {
	y, m, _ := ref.Date()
	mi := int(m) - months
	for mi <= 0 {
		mi += 12
		y--
	}
	start := time.Date(y, time.Month(mi), 1, 0, 0, 0, 0, ref.Location())
	var end time.Time
	if mi == 12 {
		end = time.Date(y+1, time.January, 1, 0, 0, 0, 0, ref.Location()).AddDate(0, 0, -1)
	} else {
		end = time.Date(y, time.Month(mi+1), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, 0, -1)
	}
	return start, end
}

func monthRange(ref time.Time, month time.Month) (time.Time, time.Time) {
	year := ref.Year()
	if month > ref.Month() {
		year--
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, ref.Location())
	var end time.Time
	if month == time.December {
		end = time.Date(year+1, time.January, 1, 0, 0, 0, 0, ref.Location()).AddDate(0, 0, -1)
	} else {
		end = time.Date(year, month+1, 1, 0, 0, 0, 0, ref.Location()).AddDate(0, 0, -1)
	}
	return start, end
}

// validDate rejects impossible calendar dates (e.g. 2026-02-30) the way
// Python's datetime constructor would raise ValueError for them, instead of
// Go's time.Date silently rolling them over into the next month.
func validDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// FilterSessionsByDate returns the session IDs whose date (YYYY-MM-DD)
// falls within [start, end], inclusive, using ordinary string comparison —
// valid because the format sorts lexicographically the same as
// chronologically.
func FilterSessionsByDate(sessionDates map[string]string, start, end string) []string {
	var matching []string
	for id, date := range sessionDates {
		if date >= start && date <= end {
			matching = append(matching, id)
		}
	}
	return matching
}
