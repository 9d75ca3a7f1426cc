package utils

import (
	"strings"

	ua "github.com/mileusna/useragent"
)

// ClientPlatform reduces a User-Agent header to a coarse platform label for
// metrics. The raw string is never stored.
func ClientPlatform(userAgent string) string {
	if userAgent == "" {
		return "unknown"
	}

	parsedUA := ua.Parse(userAgent)
	switch {
	case parsedUA.Mobile:
		return "mobile"
	case parsedUA.Tablet:
		return "tablet"
	case parsedUA.Bot:
		return "bot"
	}
	if strings.TrimSpace(parsedUA.Name) == "" {
		return "unknown"
	}
	return "desktop"
}
