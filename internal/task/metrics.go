package task

// Metrics is the always-returned outcome of one task execution. Analysis
// success and delivery success are independent: a completed analysis whose
// webhook post failed still reports Success true.
type Metrics struct {
	Success          bool   `json:"success"`
	MatchID          string `json:"matchId"`
	TraceID          string `json:"traceId"`
	GameMode         string `json:"gameMode"`
	Degraded         bool   `json:"degraded"`
	ErrorStage       string `json:"errorStage,omitempty"`
	WebhookDelivered bool   `json:"webhookDelivered"`
	DurationMS       int64  `json:"durationMs"`
}
