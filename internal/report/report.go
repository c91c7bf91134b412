package report

import "time"

// Export statuses.
const (
	StatusExported = "exported"
	StatusFailed   = "failed"
	StatusSkipped  = "skipped"
)

// ExportResult captures the outcome of exporting a single attachment.
type ExportResult struct {
	Index      int           `json:"index"`
	Name       string        `json:"name"`
	Test       string        `json:"test,omitempty"`
	PayloadRef string        `json:"payload_ref"`
	File       string        `json:"file"`
	Path       string        `json:"path"`
	Status     string        `json:"status"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
	DryRun     bool          `json:"dry_run"`
}

// Summary aggregates one extraction run.
type Summary struct {
	Tests           int           `json:"tests"`
	UnreadableTests int           `json:"unreadable_tests"`
	Attachments     int           `json:"attachments"`
	Exported        int           `json:"exported"`
	Failed          int           `json:"failed"`
	Skipped         int           `json:"skipped"`
	Duration        time.Duration `json:"-"`
	DurationMS      int64         `json:"duration_ms"`
}
