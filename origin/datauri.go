package origin

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"
)

var dataURIPattern = regexp.MustCompile(`data:(?P<type>.+?);base64,(?P<data>.+)`)

// IsDataURI reports whether s contains a base64 data URI.
func IsDataURI(s string) bool {
	return s != "" && dataURIPattern.MatchString(s)
}

// ParseDataURI splits a base64 data URI into its MIME type and the still
// encoded payload.
func ParseDataURI(s string) (mime, payload string, ok bool) {
	m := dataURIPattern.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), m[2], true
}

// DecodeBase64 decodes payload with the standard alphabet. Payloads that were
// URL-escaped on the way in (e.g. '+' turned into "%2B") are unescaped and
// retried once.
func DecodeBase64(payload string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return b, nil
	}
	unescaped, uerr := url.QueryUnescape(payload)
	if uerr != nil {
		return nil, err
	}
	b, err2 := base64.StdEncoding.DecodeString(unescaped)
	if err2 != nil {
		return nil, err
	}
	return b, nil
}
