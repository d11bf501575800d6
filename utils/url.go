package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultContentBaseURL is where relative event links and image paths live.
const DefaultContentBaseURL = "https://www.parentmap.com/"

// EncodeURLWithSpaces properly encodes a URL that may contain unencoded spaces.
// Scraped event listings sometimes carry raw spaces in image paths.
func EncodeURLWithSpaces(rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	encoded := parsedURL.Scheme + "://" + parsedURL.Host + parsedURL.EscapedPath()
	if parsedURL.RawQuery != "" {
		encoded += "?" + strings.ReplaceAll(parsedURL.RawQuery, " ", "%20")
	}
	return encoded, nil
}

// ValidateContentURL only allows http and https links to be shown to users.
func ValidateContentURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return nil
	default:
		return fmt.Errorf("URL scheme %q not allowed", parsed.Scheme)
	}
}

// ResolveContentURL turns a stored link or image reference into an absolute
// URL against base. Blank refs and refs that fail validation resolve to "".
func ResolveContentURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if base == "" {
		base = DefaultContentBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	refURL, err := url.Parse(strings.ReplaceAll(ref, " ", "%20"))
	if err != nil {
		return ""
	}
	resolved := baseURL.ResolveReference(refURL).String()
	if ValidateContentURL(resolved) != nil {
		return ""
	}
	return resolved
}
