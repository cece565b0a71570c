package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidURL = errors.New("invalid URL")

// Target is the page under audit. It is built once per audit and never mutated.
type Target struct {
	raw string
	u   *url.URL
}

// ParseTarget validates raw as an absolute http(s) URL with a host.
func ParseTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "":
		return Target{}, fmt.Errorf("%w %q: no scheme supplied, perhaps you meant https://%s", ErrInvalidURL, raw, raw)
	default:
		return Target{}, fmt.Errorf("%w %q: unsupported scheme %q", ErrInvalidURL, raw, u.Scheme)
	}
	if u.Hostname() == "" {
		return Target{}, fmt.Errorf("%w %q: no host supplied", ErrInvalidURL, raw)
	}
	return Target{raw: raw, u: u}, nil
}

func (t Target) String() string   { return t.raw }
func (t Target) Scheme() string   { return t.u.Scheme }
func (t Target) Hostname() string { return t.u.Hostname() }
func (t Target) Path() string     { return t.u.EscapedPath() }

// Netloc is the authority part of the URL: userinfo, host and port.
func (t Target) Netloc() string { return Netloc(t.u) }

// Netloc returns the authority of u the way it appears in the URL,
// or "" for relative references.
func Netloc(u *url.URL) string {
	if u == nil {
		return ""
	}
	if u.User != nil {
		return u.User.String() + "@" + u.Host
	}
	return u.Host
}
