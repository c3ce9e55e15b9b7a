package adapter

import (
	"encoding/json"

	"github.com/amishk599/boardsync/internal/model"
)

// LeverCategories represents the categories object in a Lever job.
type LeverCategories struct {
	Team         string   `json:"team"`
	Department   string   `json:"department"`
	Location     string   `json:"location"`
	Commitment   string   `json:"commitment"`
	AllLocations []string `json:"allLocations"`
}

// LeverSalaryRange is the optional structured pay range on a Lever posting.
type LeverSalaryRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
	Interval string  `json:"interval"`
}

// LeverPosting is a single job in the Lever postings API response
// (GET /v0/postings/{slug}?mode=json).
type LeverPosting struct {
	ID                     string            `json:"id"`
	Text                   string            `json:"text"`
	Description            string            `json:"description"`
	DescriptionPlain       string            `json:"descriptionPlain"`
	Categories             LeverCategories   `json:"categories"`
	Country                string            `json:"country"`
	CreatedAt              int64             `json:"createdAt"`
	WorkplaceType          string            `json:"workplaceType"`
	HostedURL              string            `json:"hostedUrl"`
	ApplyURL               string            `json:"applyUrl"`
	SalaryRange            *LeverSalaryRange `json:"salaryRange"`
	SalaryDescriptionPlain string            `json:"salaryDescriptionPlain"`
}

func (*LeverPosting) Platform() model.Platform { return model.PlatformLever }

// LeverAdapter parses Lever postings documents.
type LeverAdapter struct{}

func (LeverAdapter) Platform() model.Platform { return model.PlatformLever }

// Parse decodes the bare array Lever returns. Postings without a title are skipped.
func (LeverAdapter) Parse(body []byte) []Draft {
	items := decodeArray(body, "")
	drafts := make([]Draft, 0, len(items))
	for _, raw := range items {
		var p LeverPosting
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		trimAll(&p.Text, &p.HostedURL, &p.ApplyURL, &p.Categories.Location)
		if p.Text == "" {
			continue
		}

		description := p.DescriptionPlain
		if description == "" {
			description = p.Description
		}

		drafts = append(drafts, Draft{
			Platform:    model.PlatformLever,
			Title:       p.Text,
			JobURL:      p.HostedURL,
			ApplyURL:    p.ApplyURL,
			Location:    p.Categories.Location,
			UpstreamID:  p.ID,
			Description: description,
			Posting:     &p,
		})
	}
	return drafts
}
