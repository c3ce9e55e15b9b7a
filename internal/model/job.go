package model

import "time"

// CanonicalJob is the normalized, platform-agnostic job record kept in the store.
type CanonicalJob struct {
	ID          string    // assigned by the store on creation
	CompanyID   string    // owning company
	Title       string    // job title
	PostingURL  string    // natural dedup key; may be empty when upstream omits it
	ApplyURL    string    // separate apply link, falls back to PostingURL
	Location    string    // raw location string
	Country     string    // derived; empty when unknown
	Remote      bool      // derived
	Salary      string    // derived; empty when absent
	Description string    // plain text
	UpstreamID  string    // platform-native job id
	Platform    Platform  // ATS the job came from
	FirstSeen   time.Time // our clock
}
