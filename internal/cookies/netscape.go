// Package cookies reads browser-exported cookie files.
package cookies

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// SessionCookieName is the cookie carrying the platform session token.
const SessionCookieName = "SESSDATA"

// ErrNoSession is returned when a cookie file has no usable session cookie.
var ErrNoSession = errors.New("cookies: no SESSDATA cookie")

const httpOnlyPrefix = "#HttpOnly_"

// ParseNetscape parses the tab-separated cookies.txt format:
// domain, include-subdomains, path, secure, expiry, name, value.
func ParseNetscape(r io.Reader) ([]*http.Cookie, error) {
	var out []*http.Cookie
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			line = strings.TrimPrefix(line, httpOnlyPrefix)
			httpOnly = true
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			continue
		}
		c := &http.Cookie{
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			Name:     fields[5],
			Value:    fields[6],
			HttpOnly: httpOnly,
		}
		if expires, err := strconv.ParseInt(fields[4], 10, 64); err == nil && expires > 0 {
			c.Expires = time.Unix(expires, 0)
		}
		out = append(out, c)
	}
	return out, scanner.Err()
}

// SessionToken picks the SESSDATA value for a bilibili.com domain, skipping expired entries.
func SessionToken(list []*http.Cookie, now time.Time) (string, error) {
	for _, c := range list {
		if c.Name != SessionCookieName || c.Value == "" {
			continue
		}
		if !strings.HasSuffix(strings.TrimPrefix(c.Domain, "."), "bilibili.com") {
			continue
		}
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		return c.Value, nil
	}
	return "", ErrNoSession
}

// LoadSessionToken reads a cookies.txt file and returns its session token.
func LoadSessionToken(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open cookies file: %w", err)
	}
	defer f.Close()

	list, err := ParseNetscape(f)
	if err != nil {
		return "", fmt.Errorf("failed to parse cookies file: %w", err)
	}
	return SessionToken(list, time.Now())
}
