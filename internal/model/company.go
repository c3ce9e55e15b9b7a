package model

// Platform tags the ATS a company publishes jobs on.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

// Known reports whether p is one of the positively identified platforms.
func (p Platform) Known() bool {
	switch p {
	case PlatformGreenhouse, PlatformLever, PlatformAshby:
		return true
	}
	return false
}

// Company is a business entity whose job board is tracked.
type Company struct {
	ID          string
	Name        string
	Website     string
	ATSEndpoint string   // stored API or board URL, empty until resolved
	Platform    Platform // empty until resolved
	Stage       string   // funding stage, e.g. "Early Stage"
	Size        string   // headcount bucket, e.g. "51-200"
}

// EndpointInfo describes a resolved job board endpoint.
type EndpointInfo struct {
	Platform Platform
	APIURL   string
	Slug     string
}

// CompanyUpdate carries the only company fields the pipeline may change.
// Nil fields are left untouched.
type CompanyUpdate struct {
	ATSEndpoint *string
	Platform    *Platform
	Stage       *string
	Size        *string
}

// Empty reports whether the update changes nothing.
func (u CompanyUpdate) Empty() bool {
	return u.ATSEndpoint == nil && u.Platform == nil && u.Stage == nil && u.Size == nil
}
