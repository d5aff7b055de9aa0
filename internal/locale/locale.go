// Package locale translates the English month and weekday names derived from
// order timestamps into the report locale and formats the operator-facing
// peak-sales sentences.
//
// Catalogs are immutable mapping constants with an explicit key-not-found
// error path: a lookup miss surfaces as ErrMissingTranslation instead of a
// silently blank sentence.
package locale

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownLocale is returned by For when no catalog exists for the code.
	ErrUnknownLocale = errors.New("locale: unknown locale")

	// ErrMissingTranslation is returned when a month or weekday name is
	// absent from the catalog. The sets are closed (12 months, 7 weekdays),
	// so this only fires on a name that never came from a real timestamp.
	ErrMissingTranslation = errors.New("locale: missing translation")
)

// Catalog holds the fixed translation tables for one locale.
type Catalog struct {
	code     string
	months   map[string]string
	weekdays map[string]string

	// Sentence templates; the verb phrase carries the locale.
	peakMonthFmt   string // args: month name, year
	peakWeekdayFmt string // args: weekday name
}

// czech is the built-in report locale.
var czech = &Catalog{
	code: "cs",
	months: map[string]string{
		"January":   "Leden",
		"February":  "Únor",
		"March":     "Březen",
		"April":     "Duben",
		"May":       "Květen",
		"June":      "Červen",
		"July":      "Červenec",
		"August":    "Srpen",
		"September": "Září",
		"October":   "Říjen",
		"November":  "Listopad",
		"December":  "Prosinec",
	},
	weekdays: map[string]string{
		"Monday":    "Pondělí",
		"Tuesday":   "Úterý",
		"Wednesday": "Středa",
		"Thursday":  "Čtvrtek",
		"Friday":    "Pátek",
		"Saturday":  "Sobota",
		"Sunday":    "Neděle",
	},
	peakMonthFmt:   "Nejvyšší tržby byly v měsíci %s roku %d.",
	peakWeekdayFmt: "Nejvyšší tržby připadají na den %s.",
}

var catalogs = map[string]*Catalog{
	"cs": czech,
}

// For returns the catalog for a locale code.
func For(code string) (*Catalog, error) {
	c, ok := catalogs[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, code)
	}
	return c, nil
}

// Code returns the catalog's locale code.
func (c *Catalog) Code() string { return c.code }

// Month translates an English month name.
func (c *Catalog) Month(english string) (string, error) {
	m, ok := c.months[english]
	if !ok {
		return "", fmt.Errorf("%w: month %q (%s)", ErrMissingTranslation, english, c.code)
	}
	return m, nil
}

// Weekday translates an English weekday name.
func (c *Catalog) Weekday(english string) (string, error) {
	d, ok := c.weekdays[english]
	if !ok {
		return "", fmt.Errorf("%w: weekday %q (%s)", ErrMissingTranslation, english, c.code)
	}
	return d, nil
}

// FormatPeakMonth renders the peak-month sentence for an English month name
// and year.
func (c *Catalog) FormatPeakMonth(month string, year int) (string, error) {
	m, err := c.Month(month)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(c.peakMonthFmt, m, year), nil
}

// FormatPeakWeekday renders the peak-weekday sentence for an English weekday
// name.
func (c *Catalog) FormatPeakWeekday(weekday string) (string, error) {
	d, err := c.Weekday(weekday)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(c.peakWeekdayFmt, d), nil
}
