package harvester

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// NeedsRefresh decides whether a document must be re-fetched, given the
// stored last-modification date and the one just read from the record page.
// An empty stored date means the document has never been seen and always
// triggers a refresh. Otherwise the dates are compared as calendar days; a
// refresh is required only when the fetched day is strictly later. A parse
// failure is fatal for that single document; the caller logs it and moves on.
func NeedsRefresh(stored, fetched string) (bool, error) {
	if stored == "" {
		return true, nil
	}

	storedAt, err := dateparse.ParseAny(stored)
	if err != nil {
		return false, fmt.Errorf("parse stored date %q: %w", stored, err)
	}

	fetchedAt, err := dateparse.ParseAny(fetched)
	if err != nil {
		return false, fmt.Errorf("parse fetched date %q: %w", fetched, err)
	}

	return calendarDay(fetchedAt).After(calendarDay(storedAt)), nil
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
