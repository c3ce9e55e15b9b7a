package enrich

import (
	"regexp"
	"strconv"
	"strings"
)

// Stage buckets.
const (
	StagePublic = "Public"
	StageEarly  = "Early Stage"
	StageMid    = "Mid Stage"
	StageLate   = "Late Stage"
)

// Size buckets.
const (
	Size1to50     = "1-50"
	Size51to200   = "51-200"
	Size201to1000 = "201-1000"
	Size1000Plus  = "1000+"
)

type stageRule struct {
	re    *regexp.Regexp
	stage string
}

// stageRules are tried in order; the first match wins.
var stageRules = []stageRule{
	{regexp.MustCompile(`(?i)\bipo\b|\bpublic(ly)?\b|\bnyse\b|\bnasdaq\b|\bstock exchange\b|\blisted on\b`), StagePublic},
	{regexp.MustCompile(`(?i)\bpre-?seed\b|\bseed\b|\bseries\s+a\b|\bangel\b`), StageEarly},
	{regexp.MustCompile(`(?i)\bseries\s+[bc]\b`), StageMid},
	{regexp.MustCompile(`(?i)\bseries\s+[d-k]\b|\blate[- ]stage\b|\bgrowth\s+equity\b|\bprivate equity\b`), StageLate},
}

var preIPORe = regexp.MustCompile(`(?i)\bpre[- ]?ipo\b`)

// MapStage maps a free-text funding answer to a stage bucket.
func MapStage(answer string) (string, bool) {
	answer = preIPORe.ReplaceAllString(answer, "late-stage")
	for _, r := range stageRules {
		if r.re.MatchString(answer) {
			return r.stage, true
		}
	}
	return "", false
}

var (
	sizeRangeRe = regexp.MustCompile(`(\d[\d,]*)\s*(?:-|–|to)\s*(\d[\d,]*)`)
	sizeCountRe = regexp.MustCompile(`(?i)(\d[\d,]*)\s*(k)?\+?\s*(?:employees|people|staff|team members|headcount|persons)`)
	sizeUnderRe = regexp.MustCompile(`(?i)(?:fewer than|less than|under|below|up to)\s*(\d[\d,]*)`)
	sizeOverRe  = regexp.MustCompile(`(?i)(?:more than|over|above|at least)\s*(\d[\d,]*)`)
	sizePlusRe  = regexp.MustCompile(`(\d[\d,]*)\s*\+`)
	sizeBareRe  = regexp.MustCompile(`(?i)^\D*?(\d[\d,]*)\s*(k)?\D*$`)
)

// MapSize maps a free-text headcount answer to a size bucket. Ranges are
// bucketed by their upper bound, single counts by their value, open-ended
// answers ("over N", "N+") just above N.
func MapSize(answer string) (string, bool) {
	if m := sizeRangeRe.FindStringSubmatch(answer); m != nil {
		if hi, ok := parseCount(m[2], ""); ok {
			return sizeBucket(hi), true
		}
	}
	if m := sizeUnderRe.FindStringSubmatch(answer); m != nil {
		if n, ok := parseCount(m[1], ""); ok {
			return sizeBucket(n - 1), true
		}
	}
	if m := sizeOverRe.FindStringSubmatch(answer); m != nil {
		if n, ok := parseCount(m[1], ""); ok {
			return sizeBucket(n + 1), true
		}
	}
	// "N+" means more than N, so "1000+" lands in the bucket of the same name.
	if m := sizePlusRe.FindStringSubmatch(answer); m != nil {
		if n, ok := parseCount(m[1], ""); ok {
			return sizeBucket(n + 1), true
		}
	}
	if m := sizeCountRe.FindStringSubmatch(answer); m != nil {
		if n, ok := parseCount(m[1], m[2]); ok {
			return sizeBucket(n), true
		}
	}
	if m := sizeBareRe.FindStringSubmatch(strings.TrimSpace(answer)); m != nil {
		if n, ok := parseCount(m[1], m[2]); ok {
			return sizeBucket(n), true
		}
	}
	return "", false
}

func parseCount(digits, k string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(digits, ",", ""))
	if err != nil || n <= 0 {
		return 0, false
	}
	if k != "" {
		n *= 1000
	}
	return n, true
}

func sizeBucket(n int) string {
	switch {
	case n <= 50:
		return Size1to50
	case n <= 200:
		return Size51to200
	case n <= 1000:
		return Size201to1000
	default:
		return Size1000Plus
	}
}
