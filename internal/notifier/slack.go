package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/boardsync/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// maxSlackJobs caps the job sections in one message; Slack allows 50 blocks.
const maxSlackJobs = 15

// maxSlackRetryAfter bounds how long a rate-limited post waits before its one retry.
const maxSlackRetryAfter = 5 * time.Second

// SlackNotifier sends one message per company to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify posts a single Block Kit message listing the company's new jobs.
func (s *SlackNotifier) Notify(company model.Company, jobs []model.CanonicalJob) error {
	if len(jobs) == 0 {
		return nil
	}

	body, err := json.Marshal(buildPayload(company, jobs))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(body)
	if err != nil {
		return err
	}
	if status == http.StatusTooManyRequests {
		wait := min(max(retryAfter, time.Second), maxSlackRetryAfter)
		s.logger.Warn("slack rate limited, retrying", "retry_after", wait)
		time.Sleep(wait)

		status, _, err = s.post(body)
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
	}
	if status != http.StatusOK {
		return fmt.Errorf("slack returned %d", status)
	}

	s.logger.Info("slack message sent", "company", company.Name, "jobs", len(jobs))
	return nil
}

func (s *SlackNotifier) post(body []byte) (int, time.Duration, error) {
	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
	return resp.StatusCode, time.Duration(secs) * time.Second, nil
}

// Block Kit payload types.

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type      string        `json:"type"`
	Text      *slackText    `json:"text,omitempty"`
	Fields    []slackText   `json:"fields,omitempty"`
	Accessory *slackElement `json:"accessory,omitempty"`
	Elements  []slackText   `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type string    `json:"type"`
	Text slackText `json:"text"`
	URL  string    `json:"url"`
}

// SendTestMessage sends a sample notification to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	company := model.Company{ID: "test", Name: "boardsync test"}
	job := model.CanonicalJob{
		Title:      "Test Notification: Integration Verified",
		Location:   "Everywhere",
		Remote:     true,
		PostingURL: "https://www.ycombinator.com/jobs",
		FirstSeen:  time.Now(),
	}
	return n.Notify(company, []model.CanonicalJob{job})
}

func jobSummary(j model.CanonicalJob) string {
	var details []string
	if j.Location != "" {
		details = append(details, j.Location)
	}
	if j.Remote && !strings.Contains(strings.ToLower(j.Location), "remote") {
		details = append(details, "Remote")
	}
	if j.Salary != "" {
		details = append(details, j.Salary)
	}

	line := "*" + j.Title + "*"
	if len(details) > 0 {
		line += "\n" + strings.Join(details, " · ")
	}
	return line
}

func buildPayload(company model.Company, jobs []model.CanonicalJob) slackPayload {
	noun := "jobs"
	if len(jobs) == 1 {
		noun = "job"
	}
	title := fmt.Sprintf("%d new %s at %s", len(jobs), noun, company.Name)

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: title},
		},
	}
	if company.Stage != "" || company.Size != "" {
		var ctx []slackText
		if company.Stage != "" {
			ctx = append(ctx, slackText{Type: "mrkdwn", Text: "*Stage:* " + company.Stage})
		}
		if company.Size != "" {
			ctx = append(ctx, slackText{Type: "mrkdwn", Text: "*Size:* " + company.Size})
		}
		blocks = append(blocks, slackBlock{Type: "context", Elements: ctx})
	}

	shown := jobs
	if len(shown) > maxSlackJobs {
		shown = shown[:maxSlackJobs]
	}
	for _, j := range shown {
		b := slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: jobSummary(j)},
		}
		if link := j.ApplyURL; link != "" || j.PostingURL != "" {
			if link == "" {
				link = j.PostingURL
			}
			b.Accessory = &slackElement{
				Type: "button",
				Text: slackText{Type: "plain_text", Text: "Apply"},
				URL:  link,
			}
		}
		blocks = append(blocks, b)
	}
	if more := len(jobs) - len(shown); more > 0 {
		blocks = append(blocks, slackBlock{
			Type:     "context",
			Elements: []slackText{{Type: "mrkdwn", Text: fmt.Sprintf("…and %d more", more)}},
		})
	}
	blocks = append(blocks, slackBlock{Type: "divider"})

	return slackPayload{Text: title, Blocks: blocks}
}
