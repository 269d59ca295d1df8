package gametime

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	DaysPerSeason  = 28
	SeasonsPerYear = 4
	DaysPerYear    = DaysPerSeason * SeasonsPerYear
)

// Season is one quarter of the farming year.
type Season int

const (
	Spring Season = iota
	Summer
	Fall
	Winter
)

var seasonNames = [...]string{"spring", "summer", "fall", "winter"}

func (s Season) String() string {
	if s < Spring || s > Winter {
		return fmt.Sprintf("Season(%d)", int(s))
	}
	return seasonNames[s]
}

// ParseSeason maps a season name (case-insensitive) to a Season.
func ParseSeason(name string) (Season, error) {
	for i, n := range seasonNames {
		if strings.EqualFold(n, name) {
			return Season(i), nil
		}
	}
	return Spring, fmt.Errorf("unknown season %q", name)
}

// Date is an in-game calendar date. Day is 1-based.
type Date struct {
	Year   int    `json:"year"`
	Season Season `json:"season"`
	Day    int    `json:"day"`
}

// FirstDay is the first morning of a new save.
var FirstDay = Date{Year: 1, Season: Spring, Day: 1}

// DateFromTotalDays is the inverse of Date.TotalDays.
func DateFromTotalDays(total int) Date {
	if total < 0 {
		total = 0
	}
	return Date{
		Year:   total/DaysPerYear + 1,
		Season: Season((total % DaysPerYear) / DaysPerSeason),
		Day:    total%DaysPerSeason + 1,
	}
}

// TotalDays returns days elapsed since the first morning (0 on day one).
func (d Date) TotalDays() int {
	return (d.Year-1)*DaysPerYear + int(d.Season)*DaysPerSeason + d.Day - 1
}

// DayOfWeek returns the weekday. The 1st of every season is a Monday.
func (d Date) DayOfWeek() time.Weekday {
	return time.Weekday(d.Day % 7)
}

// Next returns the following day.
func (d Date) Next() Date {
	return DateFromTotalDays(d.TotalDays() + 1)
}

// Valid reports whether the date can occur in-game.
func (d Date) Valid() bool {
	return d.Year >= 1 && d.Season >= Spring && d.Season <= Winter && d.Day >= 1 && d.Day <= DaysPerSeason
}

func (d Date) String() string {
	return fmt.Sprintf("%s %d, year %d", d.Season, d.Day, d.Year)
}

// Calendar tracks the current in-game date.
type Calendar struct {
	today Date
	mu    sync.RWMutex
}

// NewCalendar returns a calendar starting on the given date.
func NewCalendar(start Date) *Calendar {
	if !start.Valid() {
		start = FirstDay
	}
	return &Calendar{today: start}
}

// Today returns the current date.
func (c *Calendar) Today() Date {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.today
}

// Set jumps to the given date, as happens when the host loads a save.
func (c *Calendar) Set(d Date) error {
	if !d.Valid() {
		return fmt.Errorf("invalid date %+v", d)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.today = d
	return nil
}

// AdvanceDay moves to the next morning and returns it.
func (c *Calendar) AdvanceDay() Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.today = c.today.Next()
	return c.today
}
