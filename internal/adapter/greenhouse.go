package adapter

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/amishk599/boardsync/internal/model"
)

// GreenhousePosting is a single job in the Greenhouse boards API response
// (GET /v1/boards/{token}/jobs?content=true).
type GreenhousePosting struct {
	ID             int64                `json:"id"`
	Title          string               `json:"title"`
	AbsoluteURL    string               `json:"absolute_url"`
	Location       GreenhouseLocation   `json:"location"`
	Offices        []GreenhouseOffice   `json:"offices"`
	Metadata       []GreenhouseMetadata `json:"metadata"`
	PayInputRanges []GreenhousePayRange `json:"pay_input_ranges"`
	Content        string               `json:"content"`
	UpdatedAt      string               `json:"updated_at"`
	FirstPublished string               `json:"first_published"`
}

type GreenhouseLocation struct {
	Name string `json:"name"`
}

type GreenhouseOffice struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// GreenhouseMetadata is a custom field attached to a job. Value may be a string,
// a number, a list of strings, or a currency object depending on ValueType.
type GreenhouseMetadata struct {
	Name      string          `json:"name"`
	Value     json.RawMessage `json:"value"`
	ValueType string          `json:"value_type"`
}

// Text renders the metadata value as display text.
func (m GreenhouseMetadata) Text() string {
	if s := rawString(m.Value); s != "" {
		return s
	}

	var list []string
	if err := json.Unmarshal(m.Value, &list); err == nil {
		return strings.TrimSpace(strings.Join(list, ", "))
	}

	var currency struct {
		Unit   string      `json:"unit"`
		Amount json.Number `json:"amount"`
	}
	if err := json.Unmarshal(m.Value, &currency); err == nil && currency.Amount != "" {
		return strings.TrimSpace(currency.Unit + " " + currency.Amount.String())
	}
	return ""
}

// GreenhousePayRange is a pay transparency range; amounts are in cents.
type GreenhousePayRange struct {
	MinCents     int64  `json:"min_cents"`
	MaxCents     int64  `json:"max_cents"`
	CurrencyType string `json:"currency_type"`
	Title        string `json:"title"`
}

func (*GreenhousePosting) Platform() model.Platform { return model.PlatformGreenhouse }

// GreenhouseAdapter parses Greenhouse job board documents.
type GreenhouseAdapter struct{}

func (GreenhouseAdapter) Platform() model.Platform { return model.PlatformGreenhouse }

// Parse decodes {"jobs": [...]}. Jobs that fail to decode or have no title are skipped.
func (GreenhouseAdapter) Parse(body []byte) []Draft {
	items := decodeArray(body, "jobs")
	drafts := make([]Draft, 0, len(items))
	for _, raw := range items {
		var p GreenhousePosting
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		trimAll(&p.Title, &p.AbsoluteURL, &p.Location.Name)
		if p.Title == "" {
			continue
		}

		d := Draft{
			Platform:    model.PlatformGreenhouse,
			Title:       p.Title,
			JobURL:      p.AbsoluteURL,
			ApplyURL:    p.AbsoluteURL,
			Location:    p.Location.Name,
			Description: p.Content,
			Posting:     &p,
		}
		if p.ID != 0 {
			d.UpstreamID = strconv.FormatInt(p.ID, 10)
		}
		drafts = append(drafts, d)
	}
	return drafts
}
