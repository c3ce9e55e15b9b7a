package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	codeFenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)\\s*```")
	mdLinkRe    = regexp.MustCompile(`\[([^\]]*)\]\(\s*([^)\s]+)\s*\)`)
	urlRe       = regexp.MustCompile(`(?i)https?://[^\s<>"'\x60()\[\]{}|\\^]+`)
	bareURLRe   = regexp.MustCompile(`(?i)\b(?:[a-z0-9-]+\.)+[a-z]{2,}/[^\s<>"'\x60()\[\]{}|\\^]*`)
)

// answerTrimChars are stripped from both ends of a cleaned answer.
const answerTrimChars = " \t\r\n\"'`<>[](){}*"

// CleanAnswer strips the decoration models put around short answers: code
// fences, markdown links (the target is kept), surrounding quotes and brackets.
func CleanAnswer(answer string) string {
	s := strings.TrimSpace(answer)
	if m := codeFenceRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = mdLinkRe.ReplaceAllString(s, "$2")
	return strings.Trim(s, answerTrimChars)
}

// ExtractURL returns the first http(s) URL in a free-text answer. A URL
// written without a scheme ("jobs.lever.co/acme") is returned with https://.
func ExtractURL(answer string) (string, bool) {
	s := CleanAnswer(answer)
	if strings.EqualFold(s, "none") || s == "" {
		return "", false
	}

	if u := urlRe.FindString(s); u != "" {
		return trimURLPunct(u), true
	}
	if u := bareURLRe.FindString(s); u != "" {
		return "https://" + trimURLPunct(u), true
	}
	return "", false
}

func trimURLPunct(u string) string {
	return strings.TrimRight(u, ".,;:!?*")
}

// ExtractJSON returns the first JSON object in a free-text answer.
func ExtractJSON(answer string) (json.RawMessage, bool) {
	s := strings.TrimSpace(answer)
	if m := codeFenceRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	candidate := s[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, false
	}
	return json.RawMessage(candidate), true
}
