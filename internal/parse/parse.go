// Package parse extracts structured actions from free-form agent text.
// It never fails: unparseable text degrades to the default query and mode.
package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/adaptivegym/lyingoracle/internal/domain"
)

// DefaultK is returned when no in-range query value can be extracted.
const DefaultK = 50

var (
	kPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)k\s*=\s*(\d+)`),
		regexp.MustCompile(`(?i)k\s*:\s*(\d+)`),
		regexp.MustCompile(`(?i)query\s*:\s*(\d+)`),
	}
	numberPattern = regexp.MustCompile(`\b(\d+)\b`)
)

// ParseAction extracts the threshold query and declared trust mode from text.
// The query is matched against k=NN / k:NN / query:NN first, then the first
// bare integer in [1,100], falling back to DefaultK. The mode is DISTRUST
// when the text mentions distrust, lying, or an inverted oracle; TRUST
// otherwise.
func ParseAction(text string) domain.Action {
	return domain.Action{
		K:    ParseK(text),
		Mode: ParseMode(text),
	}
}

// ParseK extracts an integer query in [1,100] from text.
func ParseK(text string) int {
	for _, p := range kPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if k, ok := inRange(m[1]); ok {
				return k
			}
		}
	}

	for _, m := range numberPattern.FindAllStringSubmatch(text, -1) {
		if k, ok := inRange(m[1]); ok {
			return k
		}
	}

	return DefaultK
}

// ParseMode extracts the declared trust mode from text.
func ParseMode(text string) domain.TrustMode {
	upper := strings.ToUpper(text)
	if strings.Contains(upper, "DISTRUST") ||
		strings.Contains(upper, "LYING") ||
		strings.Contains(upper, "INVERTED") {
		return domain.ModeDistrust
	}
	return domain.ModeTrust
}

func inRange(s string) (int, bool) {
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if k < domain.RangeMin || k > domain.RangeMax {
		return 0, false
	}
	return k, true
}
