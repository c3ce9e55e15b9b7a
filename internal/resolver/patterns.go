package resolver

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/amishk599/boardsync/internal/model"
)

// API URL templates; %s is the company slug.
const (
	greenhouseAPI = "https://boards-api.greenhouse.io/v1/boards/%s/jobs?content=true"
	leverAPI      = "https://api.lever.co/v0/postings/%s?mode=json"
	ashbyAPI      = "https://api.ashbyhq.com/posting-api/job-board/%s?includeCompensation=true"
)

type boardPattern struct {
	platform model.Platform
	re       *regexp.Regexp
	api      string
}

// boardPatterns recognize both public board URLs and API URLs. API and embed
// forms are listed first so their path segments are never taken as slugs.
var boardPatterns = []boardPattern{
	{model.PlatformGreenhouse, regexp.MustCompile(`(?i)boards-api\.greenhouse\.io/v1/boards/([a-z0-9_-]+)`), greenhouseAPI},
	{model.PlatformGreenhouse, regexp.MustCompile(`(?i)greenhouse\.io/embed/job_board(?:/js)?\?(?:[^#]*&)?for=([a-z0-9_-]+)`), greenhouseAPI},
	{model.PlatformGreenhouse, regexp.MustCompile(`(?i)(?:^|[/.])(?:job-)?boards(?:\.eu)?\.greenhouse\.io/([a-z0-9_-]+)`), greenhouseAPI},
	{model.PlatformLever, regexp.MustCompile(`(?i)api(?:\.eu)?\.lever\.co/v0/postings/([a-z0-9_.-]+)`), leverAPI},
	{model.PlatformLever, regexp.MustCompile(`(?i)(?:^|[/.])jobs(?:\.eu)?\.lever\.co/([a-z0-9_.-]+)`), leverAPI},
	{model.PlatformAshby, regexp.MustCompile(`(?i)api\.ashbyhq\.com/posting-api/job-board/([a-z0-9_.%-]+)`), ashbyAPI},
	{model.PlatformAshby, regexp.MustCompile(`(?i)(?:^|[/.])jobs\.ashbyhq\.com/([a-z0-9_.%-]+)`), ashbyAPI},
}

// reservedSlugs are path segments on board hosts that are never company slugs.
var reservedSlugs = map[string]bool{
	"embed": true,
	"v1":    true,
	"v0":    true,
	"api":   true,
}

// Match identifies the platform and slug of a board or API URL and returns
// the canonical API endpoint for it.
func Match(rawURL string) (model.EndpointInfo, bool) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return model.EndpointInfo{}, false
	}
	for _, p := range boardPatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		slug := strings.TrimRight(m[1], ".")
		if slug == "" || reservedSlugs[strings.ToLower(slug)] {
			continue
		}
		if unescaped, err := url.PathUnescape(slug); err == nil {
			slug = unescaped
		}
		return model.EndpointInfo{
			Platform: p.platform,
			APIURL:   fmt.Sprintf(p.api, url.PathEscape(slug)),
			Slug:     slug,
		}, true
	}
	return model.EndpointInfo{}, false
}

// isAbsoluteHTTP reports whether s is an absolute http(s) URL with a host.
func isAbsoluteHTTP(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
