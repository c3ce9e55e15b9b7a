package notifier

import (
	"log/slog"

	"github.com/amishk599/boardsync/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes newly created jobs to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each job via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each job with company, title, location, country and URL.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(company model.Company, jobs []model.CanonicalJob) error {
	for _, j := range jobs {
		args := []any{"company", company.Name, "title", j.Title, "location", j.Location, "url", j.PostingURL}
		if j.Country != "" {
			args = append(args, "country", j.Country)
		}
		if j.Remote {
			args = append(args, "remote", true)
		}
		if j.Salary != "" {
			args = append(args, "salary", j.Salary)
		}
		n.logger.Info("new job", args...)
	}
	return nil
}
