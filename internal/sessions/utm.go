package sessions

import (
	"net/url"
	"strings"

	"event-analytics/internal/models"
)

type utmFields struct {
	Source   string
	Medium   string
	Campaign string
	Term     string
	Content  string
}

// parseUTM extracts campaign attribution from the page context: the full
// page URL's query string when present, otherwise the raw search string.
// Malformed URLs yield empty fields.
func parseUTM(page models.RawPage) utmFields {
	query := queryValues(page)
	return utmFields{
		Source:   query.Get("utm_source"),
		Medium:   query.Get("utm_medium"),
		Campaign: query.Get("utm_campaign"),
		Term:     query.Get("utm_term"),
		Content:  query.Get("utm_content"),
	}
}

func queryValues(page models.RawPage) url.Values {
	if page.URL != "" {
		if parsed, err := url.Parse(page.URL); err == nil {
			return parsed.Query()
		}
	}
	if page.Search != "" {
		raw := strings.TrimPrefix(page.Search, "?")
		if values, err := url.ParseQuery(raw); err == nil {
			return values
		}
	}
	return url.Values{}
}

// entryPage prefers the explicit page path, falling back to the path of the
// full page URL.
func entryPage(page models.RawPage) string {
	if page.Path != "" {
		return page.Path
	}
	if page.URL != "" {
		if parsed, err := url.Parse(page.URL); err == nil {
			return parsed.Path
		}
	}
	return ""
}
