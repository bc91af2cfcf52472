package models

// NotifyResult contains the result of mailing a single build's changelog
type NotifyResult struct {
	Job        string   `json:"job"`
	Build      int      `json:"build"`
	BuildID    string   `json:"build_id"`
	Sent       bool     `json:"sent"`
	SkipReason string   `json:"skip_reason,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
}

// HistoryStats summarises a full-history render
type HistoryStats struct {
	Jobs           int   `json:"jobs"`
	Builds         int   `json:"builds"`
	RenderedBuilds int   `json:"rendered_builds"`
	DurationMs     int64 `json:"duration_ms"`
}
