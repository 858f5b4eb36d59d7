package timef

import (
	"fmt"
	"time"
)

//	Date layouts accepted in the values column
var layouts = []string{
	"2006-01-02",
	"02-01-2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

//	Parse a values column date
func Parse(s string) (time.Time, error){
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %s", s)
}

//	Canonical date rendering
func Date(t time.Time) string {
	return fmt.Sprintf("%02d-%02d-%d", t.Day(), t.Month(), t.Year())
}

func File() string {
	now := time.Now()
	return fmt.Sprintf("%d%02d%02d_%02d%02d%02d.%09d", now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond())
}
