// Package scrape extracts job postings from page documents using ordered,
// data-driven selector lists.
package scrape

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when no description selector matches the page
type NotFoundError struct {
	URL       string
	Field     string
	Selectors []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("could not find job %s on this page", e.Field)
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if len(e.Selectors) > 0 {
		msg += "; tried " + strings.Join(e.Selectors, ", ")
	}
	return msg
}
