package adapter

import (
	"encoding/json"
	"strings"

	"github.com/amishk599/boardsync/internal/model"
)

// Field-name priority lists for the fallback adapter. The first key holding a
// non-empty value wins.
var (
	genericListKeys        = []string{"jobs", "postings", "data", "results", "items", "content"}
	genericTitleKeys       = []string{"title", "text", "name", "position"}
	genericURLKeys         = []string{"absolute_url", "hostedUrl", "jobUrl", "url", "job_url", "link"}
	genericApplyKeys       = []string{"applyUrl", "apply_url", "applicationUrl"}
	genericLocationKeys    = []string{"location", "locationName", "location_name", "city"}
	genericIDKeys          = []string{"id", "uuid", "jobId", "job_id"}
	genericRemoteKeys      = []string{"isRemote", "is_remote", "remote"}
	genericSalaryKeys      = []string{"salary", "compensation", "salaryRange", "salary_range"}
	genericDescriptionKeys = []string{"descriptionPlain", "description", "content"}
)

// GenericPosting is a job object from an unidentified platform, kept as raw fields.
type GenericPosting struct {
	Fields map[string]json.RawMessage
}

func (*GenericPosting) Platform() model.Platform { return model.PlatformUnknown }

// First returns the first non-empty text value among keys.
// Objects with a "name" field (e.g. {"location": {"name": "Paris"}}) yield that name.
func (g *GenericPosting) First(keys []string) string {
	for _, k := range keys {
		raw, ok := g.Fields[k]
		if !ok {
			continue
		}
		if s := rawString(raw); s != "" {
			return s
		}
		var named struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &named); err == nil && strings.TrimSpace(named.Name) != "" {
			return strings.TrimSpace(named.Name)
		}
	}
	return ""
}

// Flag returns the first boolean value among keys.
func (g *GenericPosting) Flag(keys []string) (bool, bool) {
	for _, k := range keys {
		raw, ok := g.Fields[k]
		if !ok {
			continue
		}
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return b, true
		}
	}
	return false, false
}

// GenericAdapter guesses field names on documents from unidentified platforms.
// Use it only when the platform cannot be positively identified.
type GenericAdapter struct{}

func (GenericAdapter) Platform() model.Platform { return model.PlatformUnknown }

// Parse accepts a bare array or an object holding the array under a common key.
func (GenericAdapter) Parse(body []byte) []Draft {
	items := decodeArray(body, "")
	for _, key := range genericListKeys {
		if items != nil {
			break
		}
		items = decodeArray(body, key)
	}

	drafts := make([]Draft, 0, len(items))
	for _, raw := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		g := &GenericPosting{Fields: fields}

		title := g.First(genericTitleKeys)
		if title == "" {
			continue
		}
		remote, _ := g.Flag(genericRemoteKeys)

		drafts = append(drafts, Draft{
			Platform:    model.PlatformUnknown,
			Title:       title,
			JobURL:      g.First(genericURLKeys),
			ApplyURL:    g.First(genericApplyKeys),
			Location:    g.First(genericLocationKeys),
			Remote:      remote,
			Salary:      g.First(genericSalaryKeys),
			UpstreamID:  g.First(genericIDKeys),
			Description: g.First(genericDescriptionKeys),
			Posting:     g,
		})
	}
	return drafts
}
