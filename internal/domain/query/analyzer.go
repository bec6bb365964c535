package query

import (
	"regexp"
	"strconv"
	"strings"
)

// Requirements is the structured requirement set extracted from a raw query.
// MaxDuration is in minutes; HasMaxDuration reports whether a duration
// constraint was detected at all.
type Requirements struct {
	maxDuration    int
	hasMaxDuration bool
	needsTech      bool
	needsSoft      bool
	needsCognitive bool
	needsBalanced  bool
	isEntryLevel   bool
}

// MaxDuration returns the duration cap in minutes and whether one was set.
func (r *Requirements) MaxDuration() (int, bool) { return r.maxDuration, r.hasMaxDuration }

// NeedsTech reports a technical-skills intent.
func (r *Requirements) NeedsTech() bool { return r.needsTech }

// NeedsSoft reports a soft-skills or personality intent.
func (r *Requirements) NeedsSoft() bool { return r.needsSoft }

// NeedsCognitive reports a cognitive or aptitude intent.
func (r *Requirements) NeedsCognitive() bool { return r.needsCognitive }

// NeedsBalanced reports a mixed intent that requires category balancing.
func (r *Requirements) NeedsBalanced() bool { return r.needsBalanced }

// IsEntryLevel reports an entry-level or graduate intent.
func (r *Requirements) IsEntryLevel() bool { return r.isEntryLevel }

// durationRule pairs a compiled pattern with a unit multiplier. Group 1 of
// every pattern captures the numeric value.
type durationRule struct {
	pattern    *regexp.Regexp
	multiplier int
}

// durationRules is evaluated in order; the first match wins and evaluation
// stops. Reordering changes extracted values for ambiguous text such as
// "2 hour 30 min", so the priority order must be preserved.
var durationRules = []durationRule{
	{regexp.MustCompile(`(\d+)\s*-?\s*(\d+)?\s*(min|minute)s?`), 1},
	{regexp.MustCompile(`(\d+)\s*-?\s*(\d+)?\s*(hour|hr)s?`), 60},
	{regexp.MustCompile(`under\s+(\d+)\s*(min|minute)s?`), 1},
	{regexp.MustCompile(`under\s+(\d+)\s*(hour|hr)s?`), 60},
	{regexp.MustCompile(`maximum\s+(\d+)\s*(min|minute)s?`), 1},
	{regexp.MustCompile(`maximum\s+(\d+)\s*(hour|hr)s?`), 60},
	{regexp.MustCompile(`max\s+(\d+)\s*(min|minute)s?`), 1},
	{regexp.MustCompile(`max\s+(\d+)\s*(hour|hr)s?`), 60},
	{regexp.MustCompile(`(\d+)\s*min`), 1},
	{regexp.MustCompile(`(\d+)\s*hour`), 60},
}

// Analyze parses a raw query into a requirement set. It never fails: an
// empty or unrecognized query yields all flags false and no duration cap.
func Analyze(raw string) Requirements {
	text := strings.ToLower(raw)

	var reqs Requirements
	for _, rule := range durationRules {
		m := rule.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		reqs.maxDuration = n * rule.multiplier
		reqs.hasMaxDuration = true
		break
	}

	reqs.needsTech = containsAny(text, techKeywords)
	reqs.needsSoft = containsAny(text, softKeywords)
	reqs.needsCognitive = containsAny(text, cognitiveKeywords)
	reqs.isEntryLevel = containsAny(text, entryKeywords)
	reqs.needsBalanced = (reqs.needsTech && reqs.needsSoft) ||
		(reqs.needsTech && reqs.needsCognitive)

	return reqs
}
