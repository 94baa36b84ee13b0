package pipeline

import (
	"net/url"
	"strings"
)

// FirmNameFromURL guesses a display name for the firm from its
// website host: strip the www prefix and common TLDs, then title-case
// the dash-separated words.
func FirmNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}

	name := strings.ToLower(u.Host)
	name = strings.TrimPrefix(name, "www.")
	name = strings.TrimSuffix(name, ".com")
	name = strings.TrimSuffix(name, ".org")
	name = strings.ReplaceAll(name, "-", " ")

	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
