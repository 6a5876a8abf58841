// Package quality negotiates resolution tiers, format flags and track choice.
package quality

import (
	"sort"
	"strconv"
	"strings"

	"github.com/famomatic/bilidown/internal/types"
)

// Number is the upstream quality code (qn).
type Number int

const (
	P240      Number = 6
	P360      Number = 16
	P480      Number = 32
	P720      Number = 64
	P720_60   Number = 74
	P1080     Number = 80
	P1080Plus Number = 112
	P1080_60  Number = 116
	P4K       Number = 120
	HDR       Number = 125
	Dolby     Number = 126
	P8K       Number = 127
)

// LoginThreshold is the lowest tier that needs a session.
const LoginThreshold = P720

// VIPThreshold is the highest tier available without a subscription.
const VIPThreshold = P1080

var labels = map[Number]string{
	P240:      "240P",
	P360:      "360P",
	P480:      "480P",
	P720:      "720P",
	P720_60:   "720P60",
	P1080:     "1080P",
	P1080Plus: "1080P+",
	P1080_60:  "1080P60",
	P4K:       "4K",
	HDR:       "HDR",
	Dolby:     "Dolby Vision",
	P8K:       "8K",
}

// Tiers returns every known tier in ascending order.
func Tiers() []Number {
	out := make([]Number, 0, len(labels))
	for n := range labels {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Known reports whether n is one of the enumerated tiers.
func (n Number) Known() bool {
	_, ok := labels[n]
	return ok
}

func (n Number) String() string {
	if label, ok := labels[n]; ok {
		return label
	}
	return "qn" + strconv.Itoa(int(n))
}

// Parse accepts either a numeric qn or a tier label such as "1080P" or "4k".
func Parse(raw string) (Number, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		n := Number(v)
		return n, n.Known()
	}
	for n, label := range labels {
		if strings.EqualFold(label, s) {
			return n, true
		}
	}
	return 0, false
}

// RequiresLogin reports whether tier n needs a logged-in session.
func RequiresLogin(n Number) bool {
	return n >= LoginThreshold
}

// RequiresVIP reports whether tier n needs a VIP subscription.
func RequiresVIP(n Number) bool {
	return n > VIPThreshold
}

// Offered is a tier as advertised by a stream-meta response.
type Offered struct {
	Quality     int
	Description string
}

// DescribeFormats annotates offered tiers with gating derived from the quality number.
// Upstream gating fields are ignored.
func DescribeFormats(offered []Offered) []types.Format {
	out := make([]types.Format, 0, len(offered))
	for _, o := range offered {
		n := Number(o.Quality)
		desc := o.Description
		if desc == "" {
			desc = n.String()
		}
		out = append(out, types.Format{
			Quality:       o.Quality,
			Description:   desc,
			LoginRequired: RequiresLogin(n),
			VIPRequired:   RequiresVIP(n),
		})
	}
	return out
}
