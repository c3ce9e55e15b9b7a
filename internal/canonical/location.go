package canonical

import (
	"strings"

	"github.com/amishk599/boardsync/internal/adapter"
)

// DeriveLocation picks the job's location. Platform fields are probed first
// (office list, structured location, plain string), then the draft's own
// location, then "Remote" when a remote indicator is already known.
func DeriveLocation(d adapter.Draft) (string, bool) {
	var candidates []string
	switch p := d.Posting.(type) {
	case *adapter.GreenhousePosting:
		var offices []string
		for _, o := range p.Offices {
			if o.Location != "" {
				offices = append(offices, o.Location)
			} else {
				offices = append(offices, o.Name)
			}
		}
		candidates = append(candidates, joinDistinct(offices, "; "), p.Location.Name)
	case *adapter.LeverPosting:
		candidates = append(candidates, p.Categories.Location, joinDistinct(p.Categories.AllLocations, "; "))
	case *adapter.AshbyPosting:
		if p.Address != nil {
			a := p.Address.PostalAddress
			candidates = append(candidates, joinDistinct([]string{a.AddressLocality, a.AddressRegion, a.AddressCountry}, ", "))
		}
		candidates = append(candidates, p.Location)
	}
	candidates = append(candidates, d.Location)

	for _, c := range candidates {
		if c = cleanText(c); c != "" {
			return c, true
		}
	}
	if platformRemote(d) {
		return "Remote", true
	}
	return "", false
}

// DeriveRemote reports whether the job is remote: any platform indicator, or
// "remote" appearing in the resolved location.
func DeriveRemote(d adapter.Draft, location string) bool {
	if platformRemote(d) {
		return true
	}
	return strings.Contains(strings.ToLower(location), "remote")
}

func platformRemote(d adapter.Draft) bool {
	if d.Remote {
		return true
	}
	switch p := d.Posting.(type) {
	case *adapter.GreenhousePosting:
		for _, o := range p.Offices {
			if strings.Contains(strings.ToLower(o.Name), "remote") {
				return true
			}
		}
	case *adapter.LeverPosting:
		return strings.EqualFold(p.WorkplaceType, "remote")
	case *adapter.AshbyPosting:
		if p.IsRemote != nil && *p.IsRemote {
			return true
		}
		return strings.EqualFold(p.WorkplaceType, "remote")
	case *adapter.GenericPosting:
		return strings.EqualFold(p.First([]string{"workplaceType", "workplace_type"}), "remote")
	}
	return false
}

func joinDistinct(parts []string, sep string) string {
	seen := make(map[string]bool, len(parts))
	var out []string
	for _, p := range parts {
		p = cleanText(p)
		k := strings.ToLower(p)
		if p == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, sep)
}
