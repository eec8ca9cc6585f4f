// Package normalizer provides value coercion for imported client records:
// phone numbers, car plates, installation dates and subscription durations.
package normalizer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date form every coerced date is normalized to.
const DateLayout = "2006-01-02"

// excelEpochOffset is the number of days between the spreadsheet date serial
// epoch (1899-12-30) and the Unix epoch.
const excelEpochOffset = 25569

// defaultCountryCode is prepended to local numbers written with a leading 0.
const defaultCountryCode = "+254"

// platePattern matches a full Kenyan-style plate: 3 letters, 3 digits and an
// optional trailing letter. Anything else is left as stripped.
var platePattern = regexp.MustCompile(`^([A-Z]{3})(\d{3})([A-Z]?)$`)

// NormalizePhone converts a raw phone cell to international form. Every
// character except digits is stripped; a leading + survives. Numbers starting
// with 0 get the default country code, bare numbers just gain a +.
func NormalizePhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	hasPlus := strings.HasPrefix(trimmed, "+")

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()

	switch {
	case hasPlus:
		return "+" + number
	case strings.HasPrefix(number, "0"):
		return defaultCountryCode + number[1:]
	default:
		return "+" + number
	}
}

// NormalizePlate upper-cases a plate, strips everything outside A-Z0-9 and
// inserts a space between the letter and digit blocks when the stripped value
// is a full plate (KAA123A -> KAA 123A).
func NormalizePlate(raw string) string {
	upper := strings.ToUpper(strings.TrimSpace(raw))

	var stripped strings.Builder
	for _, r := range upper {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			stripped.WriteRune(r)
		}
	}

	plate := stripped.String()
	if m := platePattern.FindStringSubmatch(plate); m != nil {
		return m[1] + " " + m[2] + m[3]
	}
	return plate
}

// CoerceDate converts a raw cell to a calendar date. Numeric values are
// treated as spreadsheet date serials; anything else is parsed as a date
// string. Time-of-day is discarded.
func CoerceDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		seconds := math.Round((serial - excelEpochOffset) * 86400)
		t := time.Unix(int64(seconds), 0).UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	formats := []string{
		"2006-01-02",
		"02/01/2006",
		"01/02/2006",
		"02-01-2006",
		"2006/01/02",
		"02.01.2006",
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2 January 2006",
		"January 2, 2006",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", value)
}

// ParseDurationMonths strips all non-digit characters and parses the rest as
// a month count. A cell with no digits reports ok=false and the caller falls
// back to the default duration.
func ParseDurationMonths(raw string) (int, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}

	months, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return months, true
}

// AddMonths advances a date by a number of calendar months, clamping to the
// last day when the target month is shorter (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
