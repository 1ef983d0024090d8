package gamedata

import (
	"strconv"
	"time"
)

// Genitive month names, as in "15 октября".
var monthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// displayDate renders the day and month of t in loc, e.g. "15 октября".
func displayDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(loc)
	return strconv.Itoa(t.Day()) + " " + monthsGenitive[t.Month()-1]
}

// displayTime renders the wall clock of t in loc, e.g. "19:00".
func displayTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("15:04")
}
