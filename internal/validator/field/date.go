package field

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical output layout (dd/mm/yyyy).
const DateLayout = "02/01/2006"

// ocrDate tolerates the "dia", "mes" and "año" words printed on the form
// between the day, month and year boxes.
var ocrDate = regexp.MustCompile(`(?i)(\d{1,2})\s*(?:dia)?\D*(\d{1,2})\s*(?:mes)?\D*(\d{4})(?:\s*año)?`)

// commonDateLayouts are tried in order: dd/mm/yyyy, dd-mm-yyyy, yyyy-mm-dd, dd/mm/yy.
var commonDateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2006-1-2",
	"2/1/06",
}

// Date normalizes a date to dd/mm/yyyy. A calendar error in one strategy
// (day 32, month 13) only moves on to the next strategy.
func Date(text string) Result {
	if t, ok := parseOCRDate(text); ok {
		return Result{Value: t.Format(DateLayout), Valid: true}
	}

	trimmed := strings.TrimSpace(text)
	if t, ok := parseCommonDate(trimmed); ok {
		return Result{Value: t.Format(DateLayout), Valid: true}
	}

	stripped := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '/' {
			return r
		}
		return -1
	}, text)
	if t, ok := parseCommonDate(stripped); ok {
		return Result{Value: t.Format(DateLayout), Valid: true}
	}

	return Result{Value: trimmed, Valid: false}
}

func parseOCRDate(text string) (time.Time, bool) {
	m := ocrDate.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return calendarDate(year, month, day)
}

// calendarDate rejects values time.Date would silently normalize.
func calendarDate(year, month, day int) (time.Time, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

func parseCommonDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range commonDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
