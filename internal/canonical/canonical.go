// Package canonical turns adapter drafts into canonical job records.
//
// Every derivation here is a total function: any draft yields a definite,
// possibly empty, value, and the same draft always yields the same record.
package canonical

import (
	"strings"
	"time"

	"github.com/amishk599/boardsync/internal/adapter"
	"github.com/amishk599/boardsync/internal/model"
)

// Canonicalize builds the stored shape of one draft. firstSeen is stamped as
// given; the store assigns the id.
func Canonicalize(companyID string, d adapter.Draft, firstSeen time.Time) model.CanonicalJob {
	location, _ := DeriveLocation(d)
	country, _ := DeriveCountry(location)
	salary, _ := DeriveSalary(d)

	applyURL := strings.TrimSpace(d.ApplyURL)
	if applyURL == "" {
		applyURL = strings.TrimSpace(d.JobURL)
	}

	return model.CanonicalJob{
		CompanyID:   companyID,
		Title:       cleanText(d.Title),
		PostingURL:  strings.TrimSpace(d.JobURL),
		ApplyURL:    applyURL,
		Location:    location,
		Country:     country,
		Remote:      DeriveRemote(d, location),
		Salary:      salary,
		Description: DescriptionText(d.Description),
		UpstreamID:  d.UpstreamID,
		Platform:    d.Platform,
		FirstSeen:   firstSeen,
	}
}

// CanonicalizeAll canonicalizes drafts in order.
func CanonicalizeAll(companyID string, drafts []adapter.Draft, firstSeen time.Time) []model.CanonicalJob {
	jobs := make([]model.CanonicalJob, 0, len(drafts))
	for _, d := range drafts {
		jobs = append(jobs, Canonicalize(companyID, d, firstSeen))
	}
	return jobs
}
