package delivery

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func sampleReport() *FinalAnalysisReport {
	return &FinalAnalysisReport{
		MatchID:      "NA1_5001",
		TraceID:      "trace-1",
		RequesterID:  "user-42",
		ChampionName: "Ahri",
		Mode:         "summoners-rift",
		Win:          true,
		Narrative:    "A commanding mid-lane performance built on an early gold lead.",
		Tone:         "positive",
		Highlights:   []string{"600 gold lead at ten minutes"},
		Suggestions:  []string{"Track the enemy jungler after shoving."},
		KDA:          "8/2/6",
		OverallScore: 78,
		ProcessingMS: 4200,
	}
}

// TestReportPayload_Format tests the embed shape for a clean victory report
func TestReportPayload_Format(t *testing.T) {
	payload := NewReportPayload(sampleReport())

	if len(payload.Embeds) != 1 {
		t.Fatalf("Expected 1 embed, got %d", len(payload.Embeds))
	}
	embed := payload.Embeds[0]

	if !strings.Contains(embed.Title, "Ahri") || !strings.Contains(embed.Title, "Victory") {
		t.Errorf("Expected champion and outcome in title, got: %s", embed.Title)
	}
	if embed.Color != colorGreen {
		t.Errorf("Expected green color for victory, got: %d", embed.Color)
	}
	if embed.Description == "" {
		t.Error("Expected narrative in description")
	}
	if embed.Fields[0].Name != "Mode" || embed.Fields[0].Value != "summoners-rift" {
		t.Errorf("Expected mode field first, got: %+v", embed.Fields[0])
	}
	if !strings.Contains(embed.Footer.Text, AlgorithmVersion) {
		t.Errorf("Expected algorithm version in footer, got: %s", embed.Footer.Text)
	}
	if !strings.Contains(embed.Footer.Text, "NA1_5001") {
		t.Errorf("Expected match id in footer, got: %s", embed.Footer.Text)
	}
}

// TestReportPayload_Degraded tests the degraded marker and color
func TestReportPayload_Degraded(t *testing.T) {
	report := sampleReport()
	report.Degraded = true
	report.DegradationReason = "generator-error"

	payload := NewReportPayload(report)
	embed := payload.Embeds[0]

	if embed.Color != colorYellow {
		t.Errorf("Expected yellow color for degraded report, got: %d", embed.Color)
	}

	found := false
	for _, f := range embed.Fields {
		if f.Name == "Note" && strings.Contains(f.Value, "generator-error") {
			found = true
		}
	}
	if !found {
		t.Error("Expected degradation note field")
	}
}

// TestReportPayload_NarrativeTruncated tests the length bound on the description
func TestReportPayload_NarrativeTruncated(t *testing.T) {
	report := sampleReport()
	report.Narrative = strings.Repeat("a", 5000)

	payload := NewReportPayload(report)
	desc := payload.Embeds[0].Description

	if len(desc) > maxNarrativeChars {
		t.Errorf("Expected description capped at %d, got %d", maxNarrativeChars, len(desc))
	}
	if !strings.HasSuffix(desc, "...") {
		t.Error("Expected truncation marker")
	}
}

// TestErrorPayload_Format tests the failure notification shape
func TestErrorPayload_Format(t *testing.T) {
	payload := NewErrorPayload(&ErrorReport{
		MatchID: "NA1_5001",
		TraceID: "trace-1",
		Stage:   "fetching",
		Message: "provider error 500",
	})

	embed := payload.Embeds[0]
	if embed.Color != colorRed {
		t.Errorf("Expected red color for failure, got: %d", embed.Color)
	}
	if !strings.Contains(embed.Description, "retry") {
		t.Errorf("Expected retry suggestion, got: %s", embed.Description)
	}
}

// TestClient_Publish tests the HTTP call for a report
func TestClient_Publish(t *testing.T) {
	var receivedBody []byte
	var receivedContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedContentType = r.Header.Get("Content-Type")
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(zap.NewNop())

	if !client.Publish(context.Background(), server.URL, sampleReport()) {
		t.Fatal("Expected successful delivery")
	}
	if receivedContentType != "application/json" {
		t.Errorf("Expected application/json content type, got: %s", receivedContentType)
	}

	var payload WebhookPayload
	if err := json.Unmarshal(receivedBody, &payload); err != nil {
		t.Fatalf("Failed to parse sent payload: %v", err)
	}
	if len(payload.Embeds) == 0 {
		t.Error("Expected embeds in payload")
	}
}

// TestClient_Publish_Failure tests that delivery failure reports false without panicking
func TestClient_Publish_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "Invalid webhook"}`))
	}))
	defer server.Close()

	client := NewClient(zap.NewNop())

	if client.Publish(context.Background(), server.URL, sampleReport()) {
		t.Error("Expected delivery failure for bad request")
	}
}

// TestClient_Publish_NoTarget tests the empty-target short circuit
func TestClient_Publish_NoTarget(t *testing.T) {
	client := NewClient(zap.NewNop())
	if client.Publish(context.Background(), "", sampleReport()) {
		t.Error("Expected false when no target is configured")
	}
}

// TestClient_RateLimited tests retry with Retry-After
func TestClient_RateLimited(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(zap.NewNop())

	if !client.Publish(context.Background(), server.URL, sampleReport()) {
		t.Error("Expected success after retry")
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts (1 retry), got: %d", attempts)
	}
}

// TestClient_ContextCancelled tests handling of a cancelled context
func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1 * time.Second)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if client.Publish(ctx, server.URL, sampleReport()) {
		t.Error("Expected failure with cancelled context")
	}
}
