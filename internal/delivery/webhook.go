// Package delivery posts finished analysis reports to Discord-compatible
// webhooks. Delivery is best-effort: a failed post never fails the task that
// produced the report.
package delivery

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	// Colors for webhook embeds
	colorGreen  = 5763719  // 0x57F287 - clean success
	colorYellow = 16705372 // 0xFEE75C - degraded report
	colorRed    = 15158332 // 0xE74C3C - task failure

	// Default timeout for webhook requests
	defaultWebhookTimeout = 10 * time.Second

	// Max retries for rate limiting
	maxRetries = 3

	// Discord caps embed descriptions at 4096; stay well under it
	maxNarrativeChars = 1900
)

// AlgorithmVersion marks which analysis pipeline produced a report.
const AlgorithmVersion = "riftrecap-v1"

// FinalAnalysisReport is the externally delivered shape. It is built once per
// task run and immutable after construction.
type FinalAnalysisReport struct {
	MatchID           string
	TraceID           string
	RequesterID       string
	ChampionName      string
	Mode              string
	Win               bool
	Degraded          bool
	DegradationReason string
	Narrative         string
	Tone              string
	Highlights        []string
	Suggestions       []string
	KDA               string
	OverallScore      float64
	ProcessingMS      int64
}

// ErrorReport is the failure notification sent when a task ends in failed.
type ErrorReport struct {
	MatchID string
	TraceID string
	Stage   string
	Message string
}

// WebhookPayload is the wire shape for a Discord-compatible webhook message.
type WebhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed is a single rich block inside a webhook message.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField is a labeled value inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter is the small print at the bottom of an embed.
type EmbedFooter struct {
	Text string `json:"text"`
}

// NewReportPayload renders a finished analysis as a webhook message.
func NewReportPayload(report *FinalAnalysisReport) WebhookPayload {
	outcome := "Defeat"
	color := colorRed
	if report.Win {
		outcome = "Victory"
		color = colorGreen
	}
	if report.Degraded {
		color = colorYellow
	}

	fields := []EmbedField{
		{Name: "Mode", Value: report.Mode, Inline: true},
		{Name: "K/D/A", Value: report.KDA, Inline: true},
		{Name: "Overall", Value: fmt.Sprintf("%.0f/100", report.OverallScore), Inline: true},
		{Name: "Tone", Value: report.Tone, Inline: true},
	}
	if report.Degraded {
		fields = append(fields, EmbedField{Name: "Note", Value: "Simplified summary (" + report.DegradationReason + ")", Inline: true})
	}
	for i, h := range report.Highlights {
		if i >= 3 {
			break
		}
		fields = append(fields, EmbedField{Name: "Highlight", Value: h})
	}
	for i, s := range report.Suggestions {
		if i >= 3 {
			break
		}
		fields = append(fields, EmbedField{Name: "Suggestion", Value: s})
	}

	return WebhookPayload{
		Embeds: []Embed{
			{
				Title:       fmt.Sprintf("%s - %s", report.ChampionName, outcome),
				Description: truncate(report.Narrative, maxNarrativeChars),
				Color:       color,
				Fields:      fields,
				Footer: &EmbedFooter{
					Text: fmt.Sprintf("%s | %s | processed in %s", AlgorithmVersion, report.MatchID, formatMillis(report.ProcessingMS)),
				},
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			},
		},
	}
}

// NewErrorPayload renders a task failure notification.
func NewErrorPayload(errReport *ErrorReport) WebhookPayload {
	return WebhookPayload{
		Embeds: []Embed{
			{
				Title:       "Analysis Failed",
				Description: "The match could not be analyzed. Please retry in a few minutes.",
				Color:       colorRed,
				Fields: []EmbedField{
					{Name: "Match", Value: errReport.MatchID, Inline: true},
					{Name: "Stage", Value: errReport.Stage, Inline: true},
				},
				Footer: &EmbedFooter{
					Text: fmt.Sprintf("%s | trace %s", AlgorithmVersion, errReport.TraceID),
				},
			},
		},
	}
}

// Client sends analysis reports to a webhook target.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a delivery client. The webhook target is per-call because
// each task carries its own delivery destination.
func NewClient(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultWebhookTimeout},
		logger:     logger,
	}
}

// Publish posts a finished report. Returns whether delivery succeeded; a false
// return is logged but intentionally carries no error, delivery failure and
// analysis failure are independent outcomes.
func (c *Client) Publish(ctx context.Context, target string, report *FinalAnalysisReport) bool {
	if target == "" {
		c.logger.Debug("no delivery target, skipping publish",
			zap.String("match_id", report.MatchID))
		return false
	}

	if err := c.sendPayload(ctx, target, NewReportPayload(report)); err != nil {
		c.logger.Warn("report delivery failed",
			zap.String("match_id", report.MatchID),
			zap.String("trace_id", report.TraceID),
			zap.Bool("degraded", report.Degraded),
			zap.Error(err))
		return false
	}
	return true
}

// SendError posts a failure notification. Best effort, errors are only logged.
func (c *Client) SendError(ctx context.Context, target string, errReport *ErrorReport) {
	if target == "" {
		return
	}
	if err := c.sendPayload(ctx, target, NewErrorPayload(errReport)); err != nil {
		c.logger.Warn("error notification delivery failed",
			zap.String("match_id", errReport.MatchID),
			zap.String("trace_id", errReport.TraceID),
			zap.Error(err))
	}
}

// sendPayload posts a payload with retry on rate limiting.
func (c *Client) sendPayload(ctx context.Context, target string, payload WebhookPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", target, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		resp.Body.Close()

		// Discord returns 204 No Content on success
		if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
			return nil
		}

		// Rate limited - wait and retry
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := resp.Header.Get("Retry-After")
			waitDuration := time.Second
			if retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil {
					waitDuration = time.Duration(seconds) * time.Second
				}
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}

	return fmt.Errorf("webhook request failed after %d retries", maxRetries)
}

// truncate cuts s at the rune boundary nearest under max, appending an
// ellipsis when anything was dropped.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// formatMillis renders a millisecond count as a short human duration.
func formatMillis(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
