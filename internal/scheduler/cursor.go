package scheduler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidCursor is returned for a continuation token this package did not issue.
var ErrInvalidCursor = errors.New("invalid cursor")

// position is the decoded continuation token: the store page to read and
// the ids of the companies on that page that were already processed. Ids,
// not an offset: a store that lists only eligible companies drops processed
// ones from the page between calls.
type position struct {
	Page string   `json:"p,omitempty"`
	Done []string `json:"d,omitempty"`
}

func (p position) encode() string {
	if p.Page == "" && len(p.Done) == 0 {
		return ""
	}
	raw, _ := json.Marshal(p)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(token string) (position, error) {
	var p position
	if token == "" {
		return p, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	for _, id := range p.Done {
		if id == "" {
			return p, fmt.Errorf("%w: empty company id", ErrInvalidCursor)
		}
	}
	return p, nil
}

func (p position) doneSet() map[string]bool {
	done := make(map[string]bool, len(p.Done))
	for _, id := range p.Done {
		done[id] = true
	}
	return done
}
