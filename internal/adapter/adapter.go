// Package adapter turns upstream ATS job board documents into job drafts.
//
// Each supported platform decodes into its own posting type; the decoded posting
// travels on the Draft so later stages can probe platform-specific fields.
// Parse functions never fail: a document they cannot understand yields no drafts.
package adapter

import (
	"github.com/amishk599/boardsync/internal/model"
)

// Posting is the platform-specific decoded payload of one job.
// Implemented by *GreenhousePosting, *LeverPosting, *AshbyPosting and *GenericPosting.
type Posting interface {
	Platform() model.Platform
}

// Draft is an adapter's view of one job before canonicalization.
type Draft struct {
	Platform    model.Platform
	Title       string
	JobURL      string
	ApplyURL    string
	Location    string // plain location string, if the payload has one
	Remote      bool   // explicit remote flag, if the payload has one
	Salary      string // plain salary text, if the payload has one
	UpstreamID  string
	Description string // raw description, may contain HTML
	Posting     Posting
}

// Adapter parses one platform's job board document.
type Adapter interface {
	Platform() model.Platform
	Parse(body []byte) []Draft
}

// ForPlatform returns the adapter for p. Unrecognized platforms get the
// field-guessing fallback adapter.
func ForPlatform(p model.Platform) Adapter {
	switch p {
	case model.PlatformGreenhouse:
		return GreenhouseAdapter{}
	case model.PlatformLever:
		return LeverAdapter{}
	case model.PlatformAshby:
		return AshbyAdapter{}
	default:
		return GenericAdapter{}
	}
}
