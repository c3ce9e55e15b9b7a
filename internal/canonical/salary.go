package canonical

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/amishk599/boardsync/internal/adapter"
)

// salaryFieldNames identify Greenhouse metadata fields that carry pay text.
var salaryFieldNames = []string{"salary", "compensation", "pay range", "pay"}

// leverIntervals maps Lever's salary interval enum to a display suffix.
var leverIntervals = map[string]string{
	"per-year-salary":  "per year",
	"per-month-salary": "per month",
	"per-week-salary":  "per week",
	"per-day-wage":     "per day",
	"per-hour-wage":    "per hour",
	"one-time":         "one time",
}

// DeriveSalary returns display text for the job's pay. Structured pay ranges
// win over free-text metadata; the draft's own salary text is the last resort.
func DeriveSalary(d adapter.Draft) (string, bool) {
	var candidates []string
	switch p := d.Posting.(type) {
	case *adapter.GreenhousePosting:
		for _, r := range p.PayInputRanges {
			candidates = append(candidates, formatRange(float64(r.MinCents)/100, float64(r.MaxCents)/100, r.CurrencyType, ""))
		}
		for _, m := range p.Metadata {
			if isSalaryField(m.Name) {
				candidates = append(candidates, m.Text())
			}
		}
	case *adapter.LeverPosting:
		if r := p.SalaryRange; r != nil {
			candidates = append(candidates, formatRange(r.Min, r.Max, r.Currency, leverIntervals[r.Interval]))
		}
		candidates = append(candidates, p.SalaryDescriptionPlain)
	case *adapter.AshbyPosting:
		if c := p.Compensation; c != nil {
			candidates = append(candidates, c.ScrapeableCompensationSalarySummary, c.CompensationTierSummary)
		}
	}
	candidates = append(candidates, d.Salary)

	for _, c := range candidates {
		if c = cleanText(c); c != "" {
			return c, true
		}
	}
	return "", false
}

func isSalaryField(name string) bool {
	name = strings.ToLower(name)
	for _, f := range salaryFieldNames {
		if strings.Contains(name, f) {
			return true
		}
	}
	return false
}

// formatRange renders "USD 150,000 - 190,000 per year". A missing bound
// collapses the range to a single figure; no bounds yields "".
func formatRange(lo, hi float64, currency, suffix string) string {
	if lo <= 0 && hi <= 0 {
		return ""
	}
	var amount string
	switch {
	case lo <= 0 || lo == hi:
		amount = formatAmount(hi)
	case hi <= 0:
		amount = formatAmount(lo)
	default:
		amount = fmt.Sprintf("%s - %s", formatAmount(lo), formatAmount(hi))
	}
	return strings.TrimSpace(strings.Join([]string{currency, amount, suffix}, " "))
}

func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return humanize.Comma(int64(v))
	}
	return humanize.CommafWithDigits(v, 2)
}
