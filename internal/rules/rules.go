package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const secondsPerDay = 24 * 60 * 60

var windowPattern = regexp.MustCompile(`^\s*(\d\d):(\d\d)\s*-\s*(\d\d):(\d\d)\s*$`)

// Window is a time-of-day interval with inclusive bounds. The end may be
// 24:00, which admits every time up to midnight. Overnight intervals that
// wrap past midnight are not representable.
type Window struct {
	start int
	end   int
}

// ParseWindow reads an interval in "HH:MM-HH:MM" form.
func ParseWindow(value string) (Window, error) {
	m := windowPattern.FindStringSubmatch(value)
	if m == nil {
		return Window{}, fmt.Errorf("time window %q is not in HH:MM-HH:MM form", value)
	}
	start, err := daySeconds(m[1], m[2])
	if err != nil {
		return Window{}, fmt.Errorf("time window %q: %w", value, err)
	}
	end, err := daySeconds(m[3], m[4])
	if err != nil {
		return Window{}, fmt.Errorf("time window %q: %w", value, err)
	}
	if start >= secondsPerDay {
		return Window{}, fmt.Errorf("time window %q starts past the end of the day", value)
	}
	if start > end {
		return Window{}, fmt.Errorf("time window %q ends before it starts", value)
	}
	return Window{start: start, end: end}, nil
}

func daySeconds(hour, minute string) (int, error) {
	h, _ := strconv.Atoi(hour)
	m, _ := strconv.Atoi(minute)
	if m > 59 {
		return 0, fmt.Errorf("minute %s out of range", minute)
	}
	if h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%s:%s lies past 24:00", hour, minute)
	}
	return h*3600 + m*60, nil
}

// Contains reports whether the time of day of t falls inside the window.
// Bounds are compared at full precision, so a broadcast seconds after the
// end minute is outside.
func (w Window) Contains(t time.Time) bool {
	s := t.Hour()*3600 + t.Minute()*60 + t.Second()
	if s < w.start || s > w.end {
		return false
	}
	if s == w.end && t.Nanosecond() > 0 {
		return false
	}
	return true
}

func (w Window) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.start/3600, w.start%3600/60, w.end/3600, w.end%3600/60)
}

// DaySet is a set of weekdays, numbered 0 for Monday through 6 for Sunday.
type DaySet struct {
	mask uint8
}

// ParseDays builds a set from weekday numbers.
func ParseDays(days []int) (DaySet, error) {
	if len(days) == 0 {
		return DaySet{}, fmt.Errorf("weekday set is empty")
	}
	var set DaySet
	for _, day := range days {
		if day < 0 || day > 6 {
			return DaySet{}, fmt.Errorf("weekday %d out of range 0-6", day)
		}
		set.mask |= 1 << uint(day)
	}
	return set, nil
}

// Contains reports whether the weekday of t is in the set.
func (d DaySet) Contains(t time.Time) bool {
	day := (int(t.Weekday()) + 6) % 7
	return d.mask&(1<<uint(day)) != 0
}

func (d DaySet) String() string {
	parts := make([]string, 0, 7)
	for day := 0; day <= 6; day++ {
		if d.mask&(1<<uint(day)) != 0 {
			parts = append(parts, strconv.Itoa(day))
		}
	}
	return strings.Join(parts, ",")
}

// Rule holds the compiled match criteria of one configured section.
type Rule struct {
	Section string
	Title   *regexp.Regexp
	Window  Window
	Days    DaySet
}

// New compiles a rule. The title pattern is applied case-insensitively as
// a substring search, not anchored to the whole title.
func New(section, titlePattern string, window Window, days DaySet) (Rule, error) {
	re, err := regexp.Compile("(?i:" + titlePattern + ")")
	if err != nil {
		return Rule{}, fmt.Errorf("title pattern %q: %w", titlePattern, err)
	}
	return Rule{Section: section, Title: re, Window: window, Days: days}, nil
}

// Matches reports whether a broadcast with the given title and scheduled
// start satisfies every criterion of the rule.
func (r Rule) Matches(title string, start time.Time) bool {
	return r.Window.Contains(start) && r.Days.Contains(start) && r.Title.MatchString(title)
}

// Matcher assigns broadcasts to sections. Rules are tried in the order
// they were added and the first hit wins, so a broadcast belongs to at
// most one section.
type Matcher struct {
	rules []Rule
}

func NewMatcher(rules ...Rule) *Matcher {
	return &Matcher{rules: rules}
}

// Match returns the first rule matching the broadcast, if any.
func (m *Matcher) Match(title string, start time.Time) (Rule, bool) {
	for _, r := range m.rules {
		if r.Matches(title, start) {
			return r, true
		}
	}
	return Rule{}, false
}
