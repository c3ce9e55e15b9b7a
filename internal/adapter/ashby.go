package adapter

import (
	"encoding/json"

	"github.com/amishk599/boardsync/internal/model"
)

// AshbyPosting is a single job in the Ashby posting API response
// (GET /posting-api/job-board/{slug}?includeCompensation=true).
type AshbyPosting struct {
	ID                 string                   `json:"id"`
	Title              string                   `json:"title"`
	Location           string                   `json:"location"`
	SecondaryLocations []AshbySecondaryLocation `json:"secondaryLocations"`
	Address            *AshbyAddress            `json:"address"`
	IsRemote           *bool                    `json:"isRemote"`
	WorkplaceType      string                   `json:"workplaceType"`
	IsListed           *bool                    `json:"isListed"`
	JobURL             string                   `json:"jobUrl"`
	ApplyURL           string                   `json:"applyUrl"`
	DescriptionPlain   string                   `json:"descriptionPlain"`
	DescriptionHTML    string                   `json:"descriptionHtml"`
	PublishedAt        string                   `json:"publishedAt"`
	Compensation       *AshbyCompensation       `json:"compensation"`
}

type AshbySecondaryLocation struct {
	Location string        `json:"location"`
	Address  *AshbyAddress `json:"address"`
}

type AshbyAddress struct {
	PostalAddress struct {
		AddressLocality string `json:"addressLocality"`
		AddressRegion   string `json:"addressRegion"`
		AddressCountry  string `json:"addressCountry"`
	} `json:"postalAddress"`
}

// AshbyCompensation holds the human-readable compensation summaries.
type AshbyCompensation struct {
	CompensationTierSummary             string `json:"compensationTierSummary"`
	ScrapeableCompensationSalarySummary string `json:"scrapeableCompensationSalarySummary"`
}

func (*AshbyPosting) Platform() model.Platform { return model.PlatformAshby }

// AshbyAdapter parses Ashby job board documents.
type AshbyAdapter struct{}

func (AshbyAdapter) Platform() model.Platform { return model.PlatformAshby }

// Parse decodes {"jobs": [...]}. Jobs explicitly marked unlisted are skipped.
func (AshbyAdapter) Parse(body []byte) []Draft {
	items := decodeArray(body, "jobs")
	drafts := make([]Draft, 0, len(items))
	for _, raw := range items {
		var p AshbyPosting
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		trimAll(&p.Title, &p.JobURL, &p.ApplyURL, &p.Location)
		if p.Title == "" {
			continue
		}
		if p.IsListed != nil && !*p.IsListed {
			continue
		}

		description := p.DescriptionPlain
		if description == "" {
			description = p.DescriptionHTML
		}

		drafts = append(drafts, Draft{
			Platform:    model.PlatformAshby,
			Title:       p.Title,
			JobURL:      p.JobURL,
			ApplyURL:    p.ApplyURL,
			Location:    p.Location,
			Remote:      p.IsRemote != nil && *p.IsRemote,
			UpstreamID:  p.ID,
			Description: description,
			Posting:     &p,
		})
	}
	return drafts
}
