package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// ExtractJSONArray parses a JSON array out of a response that may
// contain surrounding prose, and unmarshals it into v.
func ExtractJSONArray(response string, v any) error {
	// First try direct parsing
	if err := json.Unmarshal([]byte(response), v); err == nil {
		return nil
	}

	jsonStr, err := sliceDelimited(response, '[', ']')
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		return fmt.Errorf("failed to parse extracted JSON: %w", err)
	}
	return nil
}

// ExtractJSONObject is ExtractJSONArray for a single object.
func ExtractJSONObject(response string, v any) error {
	if err := json.Unmarshal([]byte(response), v); err == nil {
		return nil
	}

	jsonStr, err := sliceDelimited(response, '{', '}')
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		return fmt.Errorf("failed to parse extracted JSON: %w", err)
	}
	return nil
}

// sliceDelimited returns the first balanced open..close run in response.
func sliceDelimited(response string, open, close byte) (string, error) {
	start := strings.IndexByte(response, open)
	if start == -1 {
		return "", fmt.Errorf("no JSON starting with %q found in response", string(open))
	}

	depth := 0
	for i := start; i < len(response); i++ {
		switch response[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return response[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("no matching %q found", string(close))
}

// ScanURLs scans a free-text response line by line and returns every
// URL-shaped token in order of appearance.
func ScanURLs(response string) []string {
	var urls []string
	for _, line := range strings.Split(response, "\n") {
		urls = append(urls, urlPattern.FindAllString(strings.TrimSpace(line), -1)...)
	}
	return urls
}
