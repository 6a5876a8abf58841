// Package classifier maps content URLs to categories and extracts their ids.
package classifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/famomatic/bilidown/internal/types"
)

var (
	bvidPattern        = regexp.MustCompile(`/video/(BV1[a-zA-Z0-9]{9})`)
	aidPattern         = regexp.MustCompile(`/video/av(\d+)`)
	epidPattern        = regexp.MustCompile(`/play/ep(\d+)`)
	ssidPattern        = regexp.MustCompile(`/play/ss(\d+)`)
	bangumiEPIDPattern = regexp.MustCompile(`/bangumi/play/ep(\d+)`)
	bangumiSSIDPattern = regexp.MustCompile(`/bangumi/play/ss(\d+)`)
	cheeseEPIDPattern  = regexp.MustCompile(`/cheese/play/ep(\d+)`)
	cheeseSSIDPattern  = regexp.MustCompile(`/cheese/play/ss(\d+)`)
)

type rule struct {
	pattern  *regexp.Regexp
	category types.Category
}

// rules are tried in order; the first match wins.
var rules = []rule{
	{pattern: bvidPattern, category: types.CategoryVideo},
	{pattern: aidPattern, category: types.CategoryVideo},
	{pattern: bangumiEPIDPattern, category: types.CategoryBangumi},
	{pattern: bangumiSSIDPattern, category: types.CategoryBangumi},
	{pattern: cheeseEPIDPattern, category: types.CategoryCheese},
	{pattern: cheeseSSIDPattern, category: types.CategoryCheese},
}

// Classify returns the category of the first rule matching url.
func Classify(url string) (types.Category, error) {
	s := strings.TrimSpace(url)
	for _, r := range rules {
		if r.pattern.MatchString(s) {
			return r.category, nil
		}
	}
	return "", fmt.Errorf("%w: %q", types.ErrUnrecognizedURL, url)
}

// ExtractBVID returns the alphanumeric BV id in url.
func ExtractBVID(url string) (string, bool) {
	m := bvidPattern.FindStringSubmatch(url)
	if len(m) != 2 {
		return "", false
	}
	return m[1], true
}

// ExtractAID returns the numeric AV id in url.
func ExtractAID(url string) (int64, bool) {
	return extractInt(aidPattern, url)
}

// ExtractEPID returns the episode id in url.
func ExtractEPID(url string) (int64, bool) {
	return extractInt(epidPattern, url)
}

// ExtractSSID returns the season id in url.
func ExtractSSID(url string) (int64, bool) {
	return extractInt(ssidPattern, url)
}

// Identify runs every extractor over url. Absent ids stay zero.
func Identify(url string) types.Identifier {
	var id types.Identifier
	id.BVID, _ = ExtractBVID(url)
	id.AID, _ = ExtractAID(url)
	id.EPID, _ = ExtractEPID(url)
	id.SSID, _ = ExtractSSID(url)
	return id
}

func extractInt(pattern *regexp.Regexp, url string) (int64, bool) {
	m := pattern.FindStringSubmatch(url)
	if len(m) != 2 {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
