package adapter

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// decodeArray extracts the job objects of a document. When key is empty the
// document itself must be an array; otherwise the array lives under key.
// Anything else yields nil.
func decodeArray(body []byte, key string) []json.RawMessage {
	body = bytes.TrimSpace(body)
	if key == "" {
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil
		}
		return items
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil
	}
	raw, ok := doc[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// rawString renders a scalar JSON value as text. Objects and arrays yield "".
func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

func trimAll(values ...*string) {
	for _, v := range values {
		*v = strings.TrimSpace(*v)
	}
}
